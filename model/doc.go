// Package model defines the provider-agnostic chat-model boundary used by
// the in-process service emulation.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Normalize tool / function calling across vendors (core.ToolCall in,
//     core.ToolOutput back)
//   - Facilitate deterministic scripting in tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so the service layer remains decoupled from vendor SDKs.
package model
