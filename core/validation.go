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


package core

import (
	"fmt"
	"math"
)

// ValidateJob validates a Job according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Every field must be populated (placeholder or real value)
//
// A job that fails this check escaped normalization incompletely; the
// normalizer guarantees all fields are populated.
func ValidateJob(job *Job) error {
	if job == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidJob)
	}

	if job.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidJob, ErrEmptyID)
	}

	fields := map[string]string{
		FieldTitle:       job.Title,
		FieldCompany:     job.Company,
		FieldLocation:    job.Location,
		FieldDescription: job.Description,
		FieldURL:         job.URL,
	}
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("%w: %w: %s", ErrInvalidJob, ErrEmptyField, name)
		}
	}

	return nil
}

// IsValidEmbedding reports whether every component of the vector is a finite
// real number. Vectors failing this check are discarded, never stored; the
// corresponding job is still persisted relationally.
func IsValidEmbedding(vector []float32) bool {
	if len(vector) == 0 {
		return false
	}
	for _, v := range vector {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// ValidateEmbedding returns an error describing why a vector is invalid,
// or nil if it is well-formed.
func ValidateEmbedding(vector []float32) error {
	if len(vector) == 0 {
		return ErrEmptyEmbedding
	}
	if !IsValidEmbedding(vector) {
		return ErrInvalidEmbedding
	}
	return nil
}

// NeedsBackfill reports whether a description is absent or is one of the
// known "no description" markers, meaning the detail page should be fetched.
func NeedsBackfill(description string) bool {
	switch description {
	case "", PlaceholderDescription, ExtractFailedSentinel:
		return true
	}
	return false
}
