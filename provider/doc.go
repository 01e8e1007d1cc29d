// Package provider defines the abstraction over externally hosted language
// models. Implementations handle the wire specifics of one service while the
// pipelines only see ordered messages in and generated text out.
//
// Key types:
//   - Provider: the gateway contract, one ChatCompletion round trip
//   - Model: a named model bound to the provider that serves it
//   - CompletionParams: system instructions, conversation, sampling knobs
//
// The openai subpackage implements the contract against any
// OpenAI-compatible endpoint (Groq in this repository's deployment), and
// providertest contains a scripted in-memory implementation for tests.
package provider
