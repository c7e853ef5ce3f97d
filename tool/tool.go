// Package tool implements the function calling subsystem that lets hosted
// agents invoke structured local capabilities (APIs, computations) with schema
// validated arguments, consistent error handling and a registry that turns
// every failure into a JSON result the remote run can consume.
package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/internal/util"
)

// Tool defines the interface for extending agent capabilities with external functions.
//
// Tools are registered with a Registry and executed when a run requests them.
// The registry serializes results (and failures) to JSON text so every tool
// call produces an output the remote run can proceed with.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define proper JSON schema for parameters
//   - Handle errors gracefully
//   - Be thread-safe if used concurrently
//   - Follow consistent naming conventions
type Tool interface {
	// Name returns the unique identifier for this tool.
	// Names should be descriptive and follow function naming conventions (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool does.
	// This description is provided to the model to help it understand when and how to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected input format.
	// This schema is used for parameter validation and published in the
	// agent's tool manifest.
	Parameters() map[string]interface{}

	// Call executes the tool with already-decoded arguments. Implementations
	// should honor ctx cancellation for long-running work. Domain failures a
	// run can recover from belong in the result value; returned errors are
	// serialized as {"error": ...} outputs by the registry.
	Call(ctx context.Context, args map[string]interface{}) (interface{}, error)
}

// Definition builds the function manifest entry for a single tool, for
// agents that carry a subset of the registry.
func Definition(t Tool) core.ToolDefinition {
	return core.NewFunctionToolDefinition(t.Name(), t.Description(), t.Parameters())
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string      `json:"tool"`              // Name of the tool that failed
	Message string      `json:"message"`           // Error message
	Code    string      `json:"code"`              // Error code for categorization
	Details interface{} `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
