package reindex

import "errors"

var (
	// ErrIndexRequired is returned when no index store is provided
	ErrIndexRequired = errors.New("index store is required")

	// ErrChunkerRequired is returned when no chunker is provided
	ErrChunkerRequired = errors.New("chunker is required")

	// ErrInvalidBatchSize is returned when the batch size is <= 0
	ErrInvalidBatchSize = errors.New("batch size must be greater than 0")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
