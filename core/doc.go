// Package core provides the foundational domain types and interfaces used by
// AgentLoop. It defines the core abstractions for:
//
//   - Agents (hosted conversational agents with instructions and tool manifests)
//   - Threads and Messages (ordered conversational containers)
//   - Runs (one execution of an agent against a thread, with a status
//     lifecycle and required-action bookkeeping)
//   - The Service boundary behind which every hosted or emulated backend sits
//   - Optional file and vector-store extensions for retrieval workflows
//
// The package intentionally keeps implementation concerns (remote transports,
// run driving, tool execution) out of scope, exposing small interfaces to
// enable custom backends and extensions. All exported identifiers include
// concise documentation to aid discoverability and external consumption.
package core
