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


// Package ai provides abstractions for the embedding services used in jobvec.
//
// This package defines the interfaces for generating vector embeddings from
// job text. It follows the dependency inversion principle, allowing the
// ingestion pipeline and search layer to depend on abstractions rather than
// concrete implementations.
//
// # Design Principles
//
// The package is designed around two key interfaces:
//
//   - Embedder: Generates fixed-dimension vector embeddings from text
//   - Provider: Creates and manages the embedding service lifecycle
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Deterministic test doubles for running without external services
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations:
//
//	provider, err := openai.NewProvider(config)  // returns ai.Provider
//
// Test utility constructors (mock.NewMockEmbedder) return CONCRETE types to
// enable test assertions and behavior injection via function fields:
//
//	mockEmbed := mock.NewMockEmbedder()  // returns *mock.MockEmbedder
//	count := mockEmbed.CallCount()       // test assertion
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithEmbeddingModel("all-minilm"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "software engineer")
package ai
