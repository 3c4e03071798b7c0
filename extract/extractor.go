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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/poiesic/askit/core"
)

// Extractor converts one document format into a core.Document.
type Extractor interface {
	// Extract parses the file at path.
	Extract(path string) (*core.Document, error)

	// Extensions returns the lowercase file extensions this extractor
	// handles, with leading dots.
	Extensions() []string
}

// Registry selects an extractor by file extension.
type Registry struct {
	byExtension map[string]Extractor
}

// NewRegistry creates a registry with the built-in extractors registered.
func NewRegistry() *Registry {
	r := &Registry{byExtension: make(map[string]Extractor)}
	r.Register(NewPlaintext())
	r.Register(NewDocx())
	return r
}

// Register adds an extractor for each extension it declares, replacing any
// previous registration for that extension.
func (r *Registry) Register(e Extractor) {
	for _, ext := range e.Extensions() {
		r.byExtension[strings.ToLower(ext)] = e
	}
}

// SupportedExtensions returns the registered extensions.
func (r *Registry) SupportedExtensions() []string {
	extensions := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		extensions = append(extensions, ext)
	}
	return extensions
}

// Supports reports whether a path's extension has a registered extractor.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExtension[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ExtractFile extracts the document at path using the extractor registered
// for its extension.
func (r *Registry) ExtractFile(path string) (*core.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extractor, ok := r.byExtension[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return extractor.Extract(path)
}

// PagedDocument wraps pre-paginated text, one string per page, into a paged
// document. Empty pages are kept so page numbers stay aligned with the
// source.
func PagedDocument(pages []string) *core.Document {
	doc := &core.Document{
		StructureType: core.StructurePaged,
		Pages:         make([]core.Page, 0, len(pages)),
		Metadata:      map[string]string{"total_pages": fmt.Sprintf("%d", len(pages))},
	}

	var fullText strings.Builder
	for i, text := range pages {
		doc.Pages = append(doc.Pages, core.Page{
			Number:    i + 1,
			Text:      text,
			CharCount: len(text),
		})
		fmt.Fprintf(&fullText, "\n--- PAGE %d ---\n%s\n", i+1, text)
	}
	doc.Text = fullText.String()

	return doc
}
