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


// Package search provides semantic search over ingested jobs.
//
// The Searcher type embeds the query text with the same model used during
// ingestion, queries the vector index for the nearest matches and hydrates
// each hit from the relational store. Hits whose job row is missing (for
// example after a partial ingestion where the index was written by an older
// run) are skipped with a warning rather than failing the search.
package search
