package storage

import (
	"context"
	"time"

	"github.com/poiesic/askit/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for the document registry: one
// record per ingested document, tracking its pipeline status.
type DocumentRepository interface {
	Repository
	// AddDocument adds a document record to storage.
	// Uses content-based IDs (IDFromContent of the filename).
	// Sets UploadedAt and UpdatedAt timestamps if not already set.
	// Returns the record with ID and timestamps populated.
	AddDocument(ctx context.Context, record *core.DocumentRecord) (*core.DocumentRecord, error)

	// UpdateDocument updates an existing document record.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if the record doesn't exist.
	UpdateDocument(ctx context.Context, record *core.DocumentRecord) (*core.DocumentRecord, error)

	// DeleteDocuments removes document records by their IDs.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error

	// GetDocument retrieves a single document record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.DocumentRecord, error)

	// FindDocumentByFilename finds a document record by its filename.
	// Returns ErrNotFound if no matching record exists.
	FindDocumentByFilename(ctx context.Context, filename string) (*core.DocumentRecord, error)

	// ListDocuments retrieves all document records, ordered by filename.
	ListDocuments(ctx context.Context) ([]*core.DocumentRecord, error)

	// CountDocumentsByStatus returns the number of records per status.
	CountDocumentsByStatus(ctx context.Context) (map[core.DocumentStatus]int, error)
}

// QueryLogRepository provides operations for the query log: one record per
// answered query, for analytics and inspection.
type QueryLogRepository interface {
	Repository
	// AddQueryRecords adds one or more query records to storage.
	// For records with Id=0, generates new IDs from sequence.
	// Sets InsertedAt timestamp if not already set.
	// Returns the records with generated IDs and timestamps populated.
	AddQueryRecords(ctx context.Context, records ...*core.QueryRecord) ([]*core.QueryRecord, error)

	// GetQueryRecord retrieves a single query record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetQueryRecord(ctx context.Context, id core.ID) (*core.QueryRecord, error)

	// GetQueryRecordsByDateRange retrieves query records within a time range.
	// Returns records where start <= Timestamp < end, ordered by timestamp.
	GetQueryRecordsByDateRange(ctx context.Context, start, end time.Time) ([]*core.QueryRecord, error)

	// GetRecentQueryRecords retrieves the N most recent query records,
	// ordered by timestamp descending.
	GetRecentQueryRecords(ctx context.Context, limit int) ([]*core.QueryRecord, error)

	// CountQueryRecords returns the total number of logged queries.
	CountQueryRecords(ctx context.Context) (int, error)
}
