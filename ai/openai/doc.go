// Package openai implements the ai.AnswerGenerator interface using
// OpenAI-compatible chat completion APIs.
//
// The implementation works with any service exposing the OpenAI chat API:
// Mistral, OpenAI, Ollama, LocalAI, vLLM. Model output is accepted either as
// plain text or as an embedded JSON object carrying answer, confidence and
// reasoning fields; malformed JSON degrades to the plain-text reading after a
// repair pass, never to an error.
package openai
