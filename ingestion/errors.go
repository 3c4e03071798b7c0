package ingestion

import "errors"

var (
	// ErrIndexRequired is returned when an index store is not provided.
	ErrIndexRequired = errors.New("index store required")

	// ErrChunkerRequired is returned when a chunker is not provided.
	ErrChunkerRequired = errors.New("chunker required")

	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")
)
