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

import "errors"

// Domain validation errors
var (
	// ErrInvalidJob indicates a Job failed validation.
	ErrInvalidJob = errors.New("invalid job")

	// ErrEmptyID indicates the ID field is empty.
	ErrEmptyID = errors.New("job id cannot be empty")

	// ErrEmptyField indicates a required job field was left empty after
	// normalization.
	ErrEmptyField = errors.New("job field cannot be empty")

	// ErrInvalidEmbedding indicates a vector contains a non-finite component.
	ErrInvalidEmbedding = errors.New("embedding contains non-finite component")

	// ErrEmptyEmbedding indicates a vector has no components.
	ErrEmptyEmbedding = errors.New("embedding cannot be empty")
)
