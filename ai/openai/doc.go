// Package openai implements the ai interfaces using OpenAI-compatible APIs.
//
// The implementation works with any OpenAI-compatible embedding endpoint,
// including local services like Ollama, LocalAI, and vLLM. Authentication is
// optional; a placeholder token is sent for services that don't require one.
package openai
