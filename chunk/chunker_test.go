package chunk

import (
	"fmt"
	"strings"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/askit/core"
)

// numberedWords returns "w1 w2 ... wN" for window arithmetic tests.
func numberedWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i+1)
	}
	return strings.Join(words, " ")
}

func TestNew_GeometryValidation(t *testing.T) {
	t.Run("zero size", func(t *testing.T) {
		_, err := New(WithGeometry(0, 0))
		assert.Error(t, err)
	})

	t.Run("overlap equals size", func(t *testing.T) {
		_, err := New(WithGeometry(100, 100))
		assert.Error(t, err)
	})

	t.Run("negative overlap", func(t *testing.T) {
		_, err := New(WithGeometry(100, -1))
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		c, err := New()
		require.NoError(t, err)
		assert.Equal(t, DefaultChunkSize, c.size)
		assert.Equal(t, DefaultChunkOverlap, c.overlap)
	})
}

func TestChunk_EmptyDocument(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	_, err = c.Chunk(nil, "doc")
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = c.Chunk(&core.Document{Text: "   \n  "}, "doc")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestChunk_GenericWindows(t *testing.T) {
	c, err := New(WithGeometry(10, 2))
	require.NoError(t, err)

	doc := &core.Document{
		Text:          numberedWords(25),
		StructureType: core.StructureGeneric,
	}
	chunks, err := c.Chunk(doc, "doc.txt")
	require.NoError(t, err)

	// step = size - overlap = 8, so windows start at 0, 8, 16, 24
	require.Len(t, chunks, 4)

	for i, chunk := range chunks {
		assert.Equal(t, core.ChunkTypeGeneric, chunk.ChunkType)
		assert.Equal(t, "doc.txt", chunk.Source)
		assert.Equal(t, float64(i)/4.0, chunk.ChunkPosition)
	}

	assert.Equal(t, 0, chunks[0].Metadata.StartIndex)
	assert.Equal(t, 10, chunks[0].Metadata.EndIndex)
	assert.Equal(t, 8, chunks[1].Metadata.StartIndex)
	assert.Equal(t, 25, chunks[3].Metadata.EndIndex)

	// Consecutive windows share exactly overlap words
	first := strings.Fields(chunks[0].Text)
	second := strings.Fields(chunks[1].Text)
	assert.Equal(t, first[len(first)-2:], second[:2])
}

func TestChunk_GenericShortText(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	doc := &core.Document{Text: "Coverage applies to permanent employees."}
	chunks, err := c.Chunk(doc, "doc.txt")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 0.0, chunks[0].ChunkPosition)
	assert.Equal(t, 5, chunks[0].WordCount)
}

func TestChunk_ByPages(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	doc := &core.Document{
		Text:          "page one page three",
		StructureType: core.StructurePaged,
		Pages: []core.Page{
			{Number: 1, Text: "Eligibility criteria for dependents.", CharCount: 36},
			{Number: 2, Text: "   "},
			{Number: 3, Text: "Exclusions and limitations apply.", CharCount: 33},
		},
	}
	chunks, err := c.Chunk(doc, "scan.pdf")
	require.NoError(t, err)

	// Blank page is skipped
	require.Len(t, chunks, 2)
	assert.Equal(t, core.ChunkTypePage, chunks[0].ChunkType)
	assert.Equal(t, 1, chunks[0].Metadata.PageNumber)
	assert.Equal(t, 3, chunks[1].Metadata.PageNumber)
	assert.Equal(t, 33, chunks[1].Metadata.CharCount)
}

func TestChunk_ByStructure_HeadingCuts(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	doc := &core.Document{
		Text:          "full text",
		StructureType: core.StructureStructured,
		Paragraphs: []core.Paragraph{
			{Text: "Preamble before any heading."},
			{Text: "Coverage", Style: "heading", HeadingLevel: 1},
			{Text: "Dental coverage is limited to $500 per year."},
			{Text: "Exclusions", Style: "heading", HeadingLevel: 2},
			{Text: "Cosmetic procedures are not covered."},
		},
	}
	chunks, err := c.Chunk(doc, "policy.docx")
	require.NoError(t, err)

	require.Len(t, chunks, 3)
	assert.Contains(t, chunks[0].Text, "Preamble")
	assert.Contains(t, chunks[1].Text, "Coverage")
	assert.Equal(t, 1, chunks[1].Metadata.HeadingLevel)
	assert.Contains(t, chunks[2].Text, "Exclusions")
	assert.Equal(t, 2, chunks[2].Metadata.HeadingLevel)
	for _, chunk := range chunks {
		assert.Equal(t, core.ChunkTypeStructured, chunk.ChunkType)
	}
}

func TestChunk_ByStructure_SizeCuts(t *testing.T) {
	// Size is in characters for structured buffers
	c, err := New(WithGeometry(50, 0))
	require.NoError(t, err)

	doc := &core.Document{
		Text:          "full text",
		StructureType: core.StructureStructured,
		Paragraphs: []core.Paragraph{
			{Text: strings.Repeat("claims processing rules ", 4)},
			{Text: "A second paragraph after the oversized buffer."},
		},
	}
	chunks, err := c.Chunk(doc, "policy.docx")
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestChunk_Enrichment(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	doc := &core.Document{
		Text: "Maternity coverage is subject to a waiting period of 12 months " +
			"and a maximum limit of $5000.",
	}
	chunks, err := c.Chunk(doc, "policy.txt")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	chunk := chunks[0]
	assert.Equal(t, core.SemanticPolicyContent, chunk.SemanticType)
	assert.Contains(t, chunk.ContentCategories, "maternity")
	assert.Contains(t, chunk.ContentCategories, "waiting_periods")
	assert.Contains(t, chunk.ContentCategories, "coverage_limits")
	assert.True(t, chunk.HasNumbers)
	assert.True(t, chunk.HasCurrency)
	assert.False(t, chunk.HasDates)
	assert.Contains(t, chunk.ExclusionIndicators, "limitations")
	assert.Equal(t, len(strings.Fields(chunk.Text)), chunk.WordCount)
}

func TestChunk_Enrichment_MedicalAndLegalTerms(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	doc := &core.Document{
		Text: "Surgery at a network hospital requires prior consultation. " +
			"See the terms and conditions of the agreement.",
	}
	chunks, err := c.Chunk(doc, "policy.txt")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.True(t, chunks[0].HasMedicalTerms)
	assert.True(t, chunks[0].HasLegalTerms)
	assert.Equal(t, core.SemanticLegalContent, chunks[0].SemanticType)
}

func TestChunk_PoolMatchesSequential(t *testing.T) {
	pool, err := ants.NewPool(4)
	require.NoError(t, err)
	defer pool.Release()

	sequential, err := New(WithGeometry(10, 2))
	require.NoError(t, err)
	pooled, err := New(WithGeometry(10, 2), WithPool(pool))
	require.NoError(t, err)

	doc := &core.Document{
		Text: "Maternity coverage has a waiting period of 12 months and dental " +
			"coverage is limited to $500 per year for all eligible employees " +
			"subject to the terms of the group agreement.",
	}

	seqChunks, err := sequential.Chunk(doc, "policy.txt")
	require.NoError(t, err)
	poolChunks, err := pooled.Chunk(doc, "policy.txt")
	require.NoError(t, err)

	require.Equal(t, len(seqChunks), len(poolChunks))
	for i := range seqChunks {
		assert.Equal(t, seqChunks[i].Text, poolChunks[i].Text)
		assert.Equal(t, seqChunks[i].SemanticType, poolChunks[i].SemanticType)
		assert.Equal(t, seqChunks[i].ContentCategories, poolChunks[i].ContentCategories)
		assert.Equal(t, seqChunks[i].ChunkPosition, poolChunks[i].ChunkPosition)
	}
}
