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


// Package badgeridx implements storage.VectorIndex on BadgerDB.
//
// Vectors are stored as serialized records under a per-id key and scanned
// exhaustively at query time with cosine similarity scoring. That is fine
// for the index sizes one ingestion host accumulates; an ANN structure
// would be overkill here.
package badgeridx

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/poiesic/jobvec/core"
	"github.com/poiesic/jobvec/storage"
)

// Index is the BadgerDB-backed vector index.
type Index struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ storage.VectorIndex = (*Index)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a vector index at the specified path.
// Creates the directory if it doesn't exist. With inMemory set, path is
// ignored and nothing is persisted.
func Open(filePath string, inMemory bool) (storage.VectorIndex, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Index{
		db:     db,
		logger: slog.Default().With("component", "vector-index"),
	}, nil
}

// withTx executes a function within a BadgerDB transaction.
// The transaction is automatically discarded if fn returns an error.
func (x *Index) withTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := x.db.NewTransaction(isWrite)
	defer tx.Discard()
	if err := fn(tx); err != nil {
		return err
	}
	if isWrite {
		return tx.Commit()
	}
	return nil
}

// EnsureIndex records the index dimension on first call and verifies it on
// every subsequent one.
func (x *Index) EnsureIndex(ctx context.Context, dimension int) error {
	if x.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	if dimension <= 0 {
		return fmt.Errorf("invalid index dimension %d", dimension)
	}

	return x.withTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(indexMetaKey))
		if err == badger.ErrKeyNotFound {
			x.logger.Info("creating vector index", "dimension", dimension)
			return tx.Set([]byte(indexMetaKey), []byte(strconv.Itoa(dimension)))
		}
		if err != nil {
			return err
		}

		var stored int
		err = item.Value(func(val []byte) error {
			stored, err = strconv.Atoi(string(val))
			return err
		})
		if err != nil {
			return err
		}
		if stored != dimension {
			return fmt.Errorf("%w: index has %d, requested %d",
				storage.ErrDimensionMismatch, stored, dimension)
		}
		return nil
	}, true)
}

// dimension reads the configured index dimension, 0 when unset.
func (x *Index) dimension(tx *badger.Txn) (int, error) {
	item, err := tx.Get([]byte(indexMetaKey))
	if err == badger.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var dim int
	err = item.Value(func(val []byte) error {
		dim, err = strconv.Atoi(string(val))
		return err
	})
	return dim, err
}

// Upsert writes vector records, overwriting existing ids. Records whose
// dimension disagrees with the index fail the whole batch before any write.
func (x *Index) Upsert(ctx context.Context, records []core.VectorRecord) error {
	if x.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	if len(records) == 0 {
		return nil
	}

	return x.withTx(func(tx *badger.Txn) error {
		dim, err := x.dimension(tx)
		if err != nil {
			return err
		}
		for i := range records {
			if dim != 0 && len(records[i].Values) != dim {
				return fmt.Errorf("%w: record %s has %d values, index has %d",
					storage.ErrDimensionMismatch, records[i].ID, len(records[i].Values), dim)
			}
		}
		for i := range records {
			data := storage.MarshalVectorRecord(&records[i])
			if err := tx.Set(makeVectorKey(records[i].ID), data); err != nil {
				return err
			}
		}
		return nil
	}, true)
}

// Query scans all vectors, scores them by cosine similarity against the
// query vector and returns the top limit matches, best first.
func (x *Index) Query(ctx context.Context, vector []float32, limit int) ([]core.VectorMatch, error) {
	if x.db.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if limit <= 0 {
		return nil, nil
	}

	var matches []core.VectorMatch
	err := x.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var record *core.VectorRecord
			err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalVectorRecord(val)
				return err
			})
			if err != nil {
				return fmt.Errorf("%w: key %s: %v",
					storage.ErrSerializationFailed, item.Key(), err)
			}
			if record == nil || len(record.Values) == 0 {
				continue
			}

			matches = append(matches, core.VectorMatch{
				ID:       record.ID,
				Score:    cosineSimilarity(vector, record.Values),
				Metadata: record.Metadata,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b core.VectorMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Count returns the number of indexed vectors.
func (x *Index) Count(ctx context.Context) (int, error) {
	if x.db.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	var count int
	err := x.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorRecordPrefix)
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

// Close closes the underlying database.
func (x *Index) Close() error {
	if x.db.IsClosed() {
		return nil
	}
	return x.db.Close()
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths are scored over the shorter prefix; zero vectors
// score 0.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
