package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/poiesic/askit/core"
)

// Plaintext extracts .txt and .md files, detecting markdown-style headings so
// downstream consumers can see the document outline.
type Plaintext struct{}

// NewPlaintext creates a plain-text extractor.
func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

// Extensions returns the extensions handled by this extractor.
func (p *Plaintext) Extensions() []string {
	return []string{".txt", ".md"}
}

// Extract reads the file and records one Paragraph per non-empty line, with
// heading levels taken from leading # markers. The structure type stays
// generic: heading detection informs metadata only, chunking of plain text is
// always window-based.
func (p *Plaintext) Extract(path string) (*core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	text := string(data)
	lines := strings.Split(text, "\n")

	var paragraphs []core.Paragraph
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			level := len(line) - len(strings.TrimLeft(line, "#"))
			if level > 6 {
				level = 6
			}
			paragraphs = append(paragraphs, core.Paragraph{
				Text:         strings.TrimSpace(strings.Trim(trimmed, "#")),
				Style:        "heading",
				HeadingLevel: level,
			})
			continue
		}
		paragraphs = append(paragraphs, core.Paragraph{
			Text:  line,
			Style: "paragraph",
		})
	}

	return &core.Document{
		Text:          text,
		StructureType: core.StructureGeneric,
		Paragraphs:    paragraphs,
		Metadata:      map[string]string{"total_lines": fmt.Sprintf("%d", len(lines))},
	}, nil
}
