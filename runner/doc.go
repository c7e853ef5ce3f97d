// Package runner implements the run-execution loop for AgentLoop.
//
// The Runner drives a remote run to a terminal state: it polls the run's
// status, detects when the backend pauses for tool output (requires_action),
// executes the requested tool calls through a tool.Registry and submits the
// collected outputs back in a single batch per pause.
//
// # Responsibilities (abridged)
//   - Run creation + blocking drive (ProcessRun / Wait)
//   - Caller-driven stepping for interleaved control (Step)
//   - Exactly-once tool output submission per requires_action snapshot
//   - Bounded waiting (poll count and elapsed-time caps)
//
// Terminal failure of a run (failed, cancelled, expired, incomplete) is an
// expected outcome and is returned as a run value, not a Go error; Go errors
// mark transport faults, context cancellation and cap exhaustion.
//
// See runner.go for the operational implementation details.
package runner
