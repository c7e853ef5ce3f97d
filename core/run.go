package core

import (
	"fmt"
	"time"
)

// RunStatus is the closed set of lifecycle states a run moves through. It
// starts queued, progresses through in_progress (possibly pausing at
// requires_action while tool outputs are gathered) and ends in exactly one
// terminal state.
type RunStatus string

const (
	// RunStatusQueued marks a run accepted but not yet executing.
	RunStatusQueued RunStatus = "queued"
	// RunStatusInProgress marks a run currently executing.
	RunStatusInProgress RunStatus = "in_progress"
	// RunStatusRequiresAction marks a run paused until tool outputs are submitted.
	RunStatusRequiresAction RunStatus = "requires_action"
	// RunStatusCancelling marks a run whose cancellation was requested.
	RunStatusCancelling RunStatus = "cancelling"
	// RunStatusCancelled marks a run terminated by cancellation.
	RunStatusCancelled RunStatus = "cancelled"
	// RunStatusFailed marks a run terminated by an execution error.
	RunStatusFailed RunStatus = "failed"
	// RunStatusCompleted marks a run that finished successfully.
	RunStatusCompleted RunStatus = "completed"
	// RunStatusIncomplete marks a run stopped before producing a full response.
	RunStatusIncomplete RunStatus = "incomplete"
	// RunStatusExpired marks a run abandoned by the backend after a deadline.
	RunStatusExpired RunStatus = "expired"
)

// Terminal reports whether the status is final, i.e. the run will never
// change state again. This is the single loop condition used when driving a
// run to completion.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCancelled, RunStatusFailed, RunStatusCompleted, RunStatusIncomplete, RunStatusExpired:
		return true
	default:
		return false
	}
}

// ToolCall is one function invocation requested by a paused run. Arguments is
// the raw JSON text produced by the model.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolOutput is the result for exactly one ToolCall, matched by id.
type ToolOutput struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}

// RequiredAction describes what a paused run is waiting for. The only action
// kind is tool-output submission, so the pending calls are carried inline.
type RequiredAction struct {
	ToolCalls []ToolCall `json:"tool_calls"`
}

// RunError carries the failure details of a terminally failed run. It
// implements the error interface so callers can surface it directly.
type RunError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *RunError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("run error (%s): %s", e.Code, e.Message)
	}

	return fmt.Sprintf("run error: %s", e.Message)
}

// Run is one execution of an agent against a thread. A Run value is a
// point-in-time snapshot; drivers poll Service.GetRun for fresh snapshots
// until Status.Terminal() holds.
type Run struct {
	ID             string          `json:"id"`
	ThreadID       string          `json:"thread_id"`
	AgentID        string          `json:"agent_id"`
	Status         RunStatus       `json:"status"`
	RequiredAction *RequiredAction `json:"required_action,omitempty"`
	LastError      *RunError       `json:"last_error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PendingToolCalls returns the tool calls the run is waiting on, or nil when
// no action is required.
func (r *Run) PendingToolCalls() []ToolCall {
	if r.RequiredAction == nil {
		return nil
	}

	return r.RequiredAction.ToolCalls
}
