package chunk

import "errors"

var (
	// ErrEmptyDocument is returned when the extracted document has no text.
	ErrEmptyDocument = errors.New("document contains no text")

	// ErrNoChunks is returned when chunking produces zero chunks.
	// Callers must treat this as an ingest failure.
	ErrNoChunks = errors.New("no chunks produced from document")
)
