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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidDocumentRecord indicates a DocumentRecord failed validation.
	ErrInvalidDocumentRecord = errors.New("invalid document record")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptySource indicates the Source field is empty.
	ErrEmptySource = errors.New("source cannot be empty")

	// ErrInvalidChunkType indicates an unknown ChunkType value.
	ErrInvalidChunkType = errors.New("invalid chunk type")

	// ErrInvalidChunkPosition indicates a chunk position outside [0,1].
	ErrInvalidChunkPosition = errors.New("chunk position must be in [0,1]")

	// ErrEmptyFilename indicates the Filename field is empty.
	ErrEmptyFilename = errors.New("filename cannot be empty")

	// ErrInvalidDocumentStatus indicates an unknown DocumentStatus value.
	ErrInvalidDocumentStatus = errors.New("invalid document status")
)
