// Package model defines the provider-agnostic abstractions for interacting
// with language models inside eventcrew.
//
// Core goals:
//   - Unify streaming + non-streaming generation behind a single interface
//   - Normalize tool / function call representation (ToolDefinition)
//   - Bind credentials per run through Factory
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement Model in sub-packages so agents and
// flows stay decoupled from vendor SDKs.
package model
