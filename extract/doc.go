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


// Package extract converts source files into core.Document values ready for
// chunking.
//
// Each supported format has its own Extractor; a Registry maps file
// extensions to extractors and picks the right one for a path. Extraction
// preserves whatever structure the format carries — heading levels for DOCX
// and Markdown, tables for DOCX — because the chunker uses that structure to
// place chunk boundaries.
//
// Supported formats: .txt, .md, .docx. Pre-paginated text (one string per
// page) can be wrapped with PagedDocument.
package extract
