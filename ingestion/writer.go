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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/jobvec/core"
	"github.com/poiesic/jobvec/storage"
)

// sinkWriter persists a batch to the two sinks in fixed order: the
// relational store first, in one transaction, then the vector index.
// The relational store is the source of truth; an index failure after a
// committed batch is reported as a warning, never an error.
type sinkWriter struct {
	jobs    storage.JobRepository
	vectors storage.VectorIndex
	logger  *slog.Logger
}

// write persists the batch. A relational failure aborts the run (nothing
// visible was written); a vector failure returns the committed batch with a
// warning and zero upserted vectors.
func (w *sinkWriter) write(ctx context.Context, jobs []core.Job, records []core.VectorRecord) (int, []string, error) {
	if err := w.jobs.UpsertJobs(ctx, jobs); err != nil {
		return 0, nil, fmt.Errorf("persisting jobs: %w", err)
	}
	w.logger.Debug("committed job batch", "jobs", len(jobs))

	if len(records) == 0 {
		return 0, nil, nil
	}

	if err := w.vectors.Upsert(ctx, records); err != nil {
		w.logger.Warn("vector index upsert failed after commit", "err", err, "records", len(records))
		warning := fmt.Sprintf("vector index upsert failed: %v; jobs were stored but are missing from similarity search", err)
		return 0, []string{warning}, nil
	}

	return len(records), nil, nil
}
