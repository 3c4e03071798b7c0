package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/askit/core"
	"github.com/poiesic/askit/storage"
)

// QueryLogRepository implements storage.QueryLogRepository for BadgerDB.
type QueryLogRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.QueryLogRepository = (*QueryLogRepository)(nil)

// NewQueryLogRepository creates a new QueryLogRepository.
func NewQueryLogRepository(backend *Backend) (*QueryLogRepository, error) {
	idSeq, err := backend.GetSequence(queryRecordIDSeq)
	if err != nil {
		return nil, err
	}

	return &QueryLogRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *QueryLogRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *QueryLogRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddQueryRecords adds one or more query records to storage.
func (r *QueryLogRepository) AddQueryRecords(ctx context.Context, records ...*core.QueryRecord) ([]*core.QueryRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if record.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				record.Id = core.ID(nextID)
			}

			if record.Timestamp.IsZero() {
				record.Timestamp = time.Now().UTC()
			}
			record.InsertedAt = time.Now().UTC()

			// Store primary record
			value, err := storage.MarshalQueryRecord(record)
			if err != nil {
				return err
			}
			if err := tx.Set(makeQueryRecordKey(record.Id), value); err != nil {
				return err
			}

			// Update date index
			dateKey := makeQueryDateKey(record.Timestamp, record.Id)
			if err := tx.Set(dateKey, storage.MarshalID(record.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// GetQueryRecord retrieves a single query record by ID.
func (r *QueryLogRepository) GetQueryRecord(ctx context.Context, id core.ID) (*core.QueryRecord, error) {
	var result *core.QueryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readQueryRecord(tx, makeQueryRecordKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetQueryRecordsByDateRange retrieves query records within a time range.
func (r *QueryLogRepository) GetQueryRecordsByDateRange(ctx context.Context, start, end time.Time) ([]*core.QueryRecord, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.QueryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialQueryDateKey(start)
		endKey := makePartialQueryDateKey(end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) > 0 {
				break
			}

			// Read the ID from the index
			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full record
			record, err := r.readQueryRecord(tx, makeQueryRecordKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetRecentQueryRecords retrieves the N most recent query records, ordered by
// timestamp descending.
func (r *QueryLogRepository) GetRecentQueryRecords(ctx context.Context, limit int) ([]*core.QueryRecord, error) {
	var results []*core.QueryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent records first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key in the date index
		startKey := makePartialQueryDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))

		prefix := []byte(queryRecordDatePrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()

			// Check if we're still in the query date index
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			// Read the ID from the index
			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full record
			record, err := r.readQueryRecord(tx, makeQueryRecordKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// CountQueryRecords returns the total number of logged queries.
func (r *QueryLogRepository) CountQueryRecords(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(queryRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readQueryRecord reads a query record from the transaction.
func (r *QueryLogRepository) readQueryRecord(tx *badger.Txn, key []byte) (*core.QueryRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.QueryRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalQueryRecord(val)
		return unmarshalErr
	})
	return record, err
}
