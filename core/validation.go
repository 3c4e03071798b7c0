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

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Source must not be empty
//   - ChunkType must be one of page, structured, generic
//   - ChunkPosition must be in [0,1]
//
// NOT validated (derived at ingest time):
//   - Keywords (populated by the index on insertion)
//   - VectorID (assigned by the index on insertion)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if chunk.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptySource)
	}

	if err := ValidateChunkType(chunk.ChunkType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}

	if chunk.ChunkPosition < 0 || chunk.ChunkPosition > 1 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrInvalidChunkPosition)
	}

	return nil
}

// ValidateChunkType validates that a ChunkType has a known value.
func ValidateChunkType(ct ChunkType) error {
	switch ct {
	case ChunkTypePage, ChunkTypeStructured, ChunkTypeGeneric:
		return nil
	}
	return fmt.Errorf("%w: value %q", ErrInvalidChunkType, ct)
}

// ValidateDocumentRecord validates a DocumentRecord according to domain rules.
//
// Validation rules:
//   - Filename must not be empty
//   - Status must be a known DocumentStatus
func ValidateDocumentRecord(record *DocumentRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidDocumentRecord)
	}

	if record.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocumentRecord, ErrEmptyFilename)
	}

	if err := ValidateDocumentStatus(record.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocumentRecord, err)
	}

	return nil
}

// ValidateDocumentStatus validates that a DocumentStatus has a known value.
func ValidateDocumentStatus(status DocumentStatus) error {
	switch status {
	case DocumentStatusPending, DocumentStatusProcessing,
		DocumentStatusCompleted, DocumentStatusFailed:
		return nil
	}
	return fmt.Errorf("%w: value %q", ErrInvalidDocumentStatus, status)
}
