// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/askit/core"
)

// Docx extracts .docx files. A DOCX is a ZIP archive whose main content
// lives in word/document.xml; only that part is read.
type Docx struct{}

// NewDocx creates a DOCX extractor.
func NewDocx() *Docx {
	return &Docx{}
}

// Extensions returns the extensions handled by this extractor.
func (d *Docx) Extensions() []string {
	return []string{".docx"}
}

// documentXML mirrors the parts of word/document.xml we care about.
// Paragraphs and tables are collected separately; within the flattened text
// tables follow the paragraphs, each prefixed with a table marker.
type documentXML struct {
	Body struct {
		Paragraphs []paragraphXML `xml:"p"`
		Tables     []tableXML     `xml:"tbl"`
	} `xml:"body"`
}

type paragraphXML struct {
	Props struct {
		Style struct {
			Val string `xml:"val,attr"`
		} `xml:"pStyle"`
	} `xml:"pPr"`
	Runs []runXML `xml:"r"`
}

type runXML struct {
	Text []textXML `xml:"t"`
}

type textXML struct {
	Content string `xml:",chardata"`
}

type tableXML struct {
	Rows []struct {
		Cells []struct {
			Paragraphs []paragraphXML `xml:"p"`
		} `xml:"tc"`
	} `xml:"tr"`
}

// Extract opens the archive, parses word/document.xml, and builds a
// structured document: paragraphs carry their heading level, headings are
// rendered as markdown-style markers in the flattened text, and tables are
// appended row by row under a table marker.
func (d *Docx) Extract(path string) (*core.Document, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	defer reader.Close()

	content, err := readArchiveFile(&reader.Reader, "word/document.xml")
	if err != nil {
		return nil, err
	}

	var parsed documentXML
	if err := xml.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var fullText strings.Builder
	paragraphs := make([]core.Paragraph, 0, len(parsed.Body.Paragraphs))
	for _, para := range parsed.Body.Paragraphs {
		text := paragraphText(para)
		style := para.Props.Style.Val
		level := headingLevel(style)

		paragraphs = append(paragraphs, core.Paragraph{
			Text:         text,
			Style:        style,
			HeadingLevel: level,
		})

		if level > 0 {
			fmt.Fprintf(&fullText, "\n%s %s\n", strings.Repeat("#", level), text)
		} else {
			fullText.WriteString(text + "\n")
		}
	}

	for _, table := range parsed.Body.Tables {
		var tableText strings.Builder
		for _, row := range table.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				cellParts := make([]string, 0, len(cell.Paragraphs))
				for _, para := range cell.Paragraphs {
					cellParts = append(cellParts, paragraphText(para))
				}
				cells = append(cells, strings.Join(cellParts, " "))
			}
			tableText.WriteString(strings.Join(cells, " | ") + "\n")
		}
		fmt.Fprintf(&fullText, "\n--- TABLE ---\n%s\n", tableText.String())
	}

	return &core.Document{
		Text:          fullText.String(),
		StructureType: core.StructureStructured,
		Paragraphs:    paragraphs,
		Metadata: map[string]string{
			"total_paragraphs": fmt.Sprintf("%d", len(paragraphs)),
			"total_tables":     fmt.Sprintf("%d", len(parsed.Body.Tables)),
		},
	}, nil
}

// readArchiveFile returns the contents of one file inside the archive, or
// ErrInvalidDocument if the file is absent.
func readArchiveFile(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		return content, nil
	}
	return nil, fmt.Errorf("%w: missing %s", ErrInvalidDocument, name)
}

// paragraphText joins the text runs of a paragraph.
func paragraphText(para paragraphXML) string {
	var sb strings.Builder
	for _, run := range para.Runs {
		for _, text := range run.Text {
			sb.WriteString(text.Content)
		}
	}
	return sb.String()
}

// headingLevel maps a DOCX paragraph style to a heading level, 0 for body
// text. Both style IDs ("Heading1") and display names ("Heading 1") are
// accepted.
func headingLevel(style string) int {
	if style == "" {
		return 0
	}
	if style == "Title" {
		return 1
	}
	normalized := strings.ReplaceAll(style, " ", "")
	if !strings.HasPrefix(normalized, "Heading") {
		return 0
	}
	switch strings.TrimPrefix(normalized, "Heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	}
	return 0
}
