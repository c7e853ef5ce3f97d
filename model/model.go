package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentloop/core"
)

// Role identifies the author of a Turn.
type Role string

const (
	// RoleUser marks input authored by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks model output, including requested tool calls.
	RoleAssistant Role = "assistant"
	// RoleTool marks tool results fed back to the model.
	RoleTool Role = "tool"
)

// Stop reasons normalized across providers.
const (
	StopReasonStop      = "stop"
	StopReasonToolCalls = "tool_calls"
	StopReasonLength    = "length"
)

// Turn is one entry of the transcript sent to a model. Assistant turns may
// carry tool calls; tool turns carry the matching outputs.
type Turn struct {
	Role        Role
	Text        string
	ToolCalls   []core.ToolCall
	ToolOutputs []core.ToolOutput
}

// Request captures the normalized model input assembled by the caller.
// Hosted tool entries (code_interpreter, file_search) in Tools are ignored by
// chat adapters; only function tools reach the model.
type Request struct {
	Model        string
	Instructions string
	Turns        []Turn
	Tools        []core.ToolDefinition
}

// Response is the model's reply to one Request. A non-empty ToolCalls slice
// means the model wants tools executed before it can continue.
type Response struct {
	Text       string
	ToolCalls  []core.ToolCall
	StopReason string // StopReasonStop, StopReasonToolCalls, StopReasonLength, or a provider value
}

// TextResponse builds a plain text Response.
func TextResponse(text string) *Response {
	return &Response{Text: text, StopReason: StopReasonStop}
}

// ToolCallResponse builds a Response requesting the given tool calls.
func ToolCallResponse(calls ...core.ToolCall) *Response {
	return &Response{ToolCalls: calls, StopReason: StopReasonToolCalls}
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required to drive generation.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a scripted in-memory Model useful for tests & examples.
// Enqueued responses are served in order; once the script is exhausted it
// falls back to echoing the latest user text. Safe for concurrent use.
type MockModel struct {
	mu        sync.Mutex
	info      Info
	responses []*Response
	requests  []Request
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel() *MockModel {
	return &MockModel{
		info: Info{
			Name:          "mock-model",
			Provider:      "mock",
			SupportsTools: true,
		},
	}
}

// Enqueue appends scripted responses served by subsequent Generate calls.
func (m *MockModel) Enqueue(responses ...*Response) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responses = append(m.responses, responses...)

	return m
}

// Requests returns a copy of every Request seen so far, in order.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Request(nil), m.requests...)
}

// Generate implements Model; pops the next scripted response or echoes.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if len(m.responses) > 0 {
		resp := m.responses[0]
		m.responses = m.responses[1:]
		return resp, nil
	}

	var lastUserText string
	for _, turn := range req.Turns {
		if turn.Role == RoleUser {
			lastUserText = turn.Text
		}
	}

	return TextResponse(fmt.Sprintf("Mock response to: %s", lastUserText)), nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
