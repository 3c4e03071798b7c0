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


package badger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/askit/core"
	"github.com/poiesic/askit/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	return &DocumentRepository{backend: backend}, nil
}

// Close is a no-op; the repository holds no resources beyond the backend.
func (r *DocumentRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddDocument adds a document record to storage. The ID is derived from the
// filename, so re-adding the same filename overwrites the previous record.
func (r *DocumentRepository) AddDocument(ctx context.Context, record *core.DocumentRecord) (*core.DocumentRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if record.Id == 0 {
			record.Id = core.IDFromContent(record.Filename)
		}
		if record.UploadedAt.IsZero() {
			record.UploadedAt = time.Now().UTC()
		}
		record.UpdatedAt = time.Now().UTC()

		// Store primary record
		value, err := storage.MarshalDocumentRecord(record)
		if err != nil {
			return err
		}
		if err := tx.Set(makeDocumentKey(record.Id), value); err != nil {
			return err
		}

		// Update filename index
		if err := tx.Set(makeDocumentFilenameKey(record.Filename), storage.MarshalID(record.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return record, err
}

// UpdateDocument updates an existing document record.
func (r *DocumentRepository) UpdateDocument(ctx context.Context, record *core.DocumentRecord) (*core.DocumentRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(record.Id)

		old, err := r.readDocumentRecord(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		record.UpdatedAt = time.Now().UTC()

		value, err := storage.MarshalDocumentRecord(record)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}

		// Update filename index if the filename changed
		if old.Filename != record.Filename {
			if err := tx.Delete(makeDocumentFilenameKey(old.Filename)); err != nil {
				return err
			}
			if err := tx.Set(makeDocumentFilenameKey(record.Filename), storage.MarshalID(record.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return record, err
}

// DeleteDocuments removes document records by their IDs.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDocumentKey(id)

			record, err := r.readDocumentRecord(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeDocumentFilenameKey(record.Filename)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a single document record by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.DocumentRecord, error) {
	var result *core.DocumentRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readDocumentRecord(tx, makeDocumentKey(id))
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

// FindDocumentByFilename finds a document record by its filename.
func (r *DocumentRepository) FindDocumentByFilename(ctx context.Context, filename string) (*core.DocumentRecord, error) {
	var result *core.DocumentRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentFilenameKey(filename))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		result, err = r.readDocumentRecord(tx, makeDocumentKey(id))
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

// ListDocuments retrieves all document records, ordered by filename.
func (r *DocumentRepository) ListDocuments(ctx context.Context) ([]*core.DocumentRecord, error) {
	var results []*core.DocumentRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.DocumentRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalDocumentRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.DocumentRecord) int {
		return strings.Compare(a.Filename, b.Filename)
	})
	return results, nil
}

// CountDocumentsByStatus returns the number of records per status.
func (r *DocumentRepository) CountDocumentsByStatus(ctx context.Context) (map[core.DocumentStatus]int, error) {
	records, err := r.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[core.DocumentStatus]int)
	for _, record := range records {
		counts[record.Status]++
	}
	return counts, nil
}

// readDocumentRecord reads a document record from the transaction.
func (r *DocumentRepository) readDocumentRecord(tx *badger.Txn, key []byte) (*core.DocumentRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.DocumentRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalDocumentRecord(val)
		return unmarshalErr
	})
	return record, err
}
