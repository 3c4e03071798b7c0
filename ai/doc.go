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


// Package ai provides abstractions for the answer-generation service used in
// Askit.
//
// The retrieval core treats answer generation as an external collaborator:
// it supplies a query and ranked context chunks, and receives an answer with
// a confidence and reasoning. This package defines that contract; the core
// depends on the abstraction, never on a concrete model client.
//
// # Implementation Packages
//
//   - ai/openai: production implementation for OpenAI-compatible chat APIs
//     (Mistral, OpenAI, Ollama, vLLM and friends)
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewGenerator) return the ai.AnswerGenerator
// INTERFACE to enforce abstraction. Mock constructors return CONCRETE types
// so tests can inject behavior and assert on call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("https://api.mistral.ai"),
//	    ai.WithModel("mistral-large-latest"),
//	)
//	generator, err := openai.NewGenerator(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	answer, err := generator.GenerateAnswer(ctx, "What is covered?", chunks)
package ai
