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


// Package storage provides the storage abstraction layer for jobvec.
//
// This package defines the two persistence interfaces the pipeline writes
// to, decoupling business logic from the concrete backends:
//
//   - JobRepository: the relational job store, the source of truth.
//     Implemented by the sqlite subpackage.
//   - VectorIndex: the similarity index, a best-effort secondary sink.
//     Implemented by the badgeridx subpackage.
//
// # Constructor Return Type Pattern
//
// Public constructors in the backend subpackages return these interfaces,
// not concrete types:
//
//	repo, err := sqlite.Open(path)        // returns storage.JobRepository
//	idx, err := badgeridx.Open(path, ...) // returns storage.VectorIndex
//
// This keeps consumers swappable across backends and mockable in tests.
//
// # Write Ordering
//
// The two sinks are deliberately not transactionally coupled. Callers
// persist the relational batch first, in one transaction, and only then
// upsert vectors. An index failure after a committed batch leaves jobs
// queryable by id but absent from similarity results; re-running the same
// ingestion heals the index because both sinks upsert by the same id.
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access
// from multiple goroutines.
package storage
