package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// -------------------- FunctionTool Tests --------------------

func TestFunctionTool_Success(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}

	sumTool := NewFunctionTool("sum", "Add numbers", params, func(_ context.Context, args map[string]any) (any, error) {
		a := args["a"].(float64)
		b := args["b"].(float64)
		return a + b, nil
	})

	result, err := sumTool.Call(context.Background(), map[string]any{"a": 2.0, "b": 3.0})
	assert.NoError(t, err)
	assert.Equal(t, 5.0, result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
		},
		// Use interface slice to match JSON decoded schema shape
		"required": []any{"a"},
	}
	tTool := NewFunctionTool("test", "Test", params, func(_ context.Context, _ map[string]any) (any, error) {
		return 0, nil
	})

	_, err := tTool.Call(context.Background(), map[string]any{})
	assert.Error(t, err)

	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	execTool := NewFunctionTool("fail", "Fails", params, func(_ context.Context, _ map[string]any) (any, error) {
		return nil, errors.New("boom")
	})

	_, err := execTool.Call(context.Background(), map[string]any{})
	assert.Error(t, err)

	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
}

func TestFunctionTool_CustomToolErrorForwarded(t *testing.T) {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	ratedTool := NewFunctionTool("rated", "Rated", params, func(_ context.Context, _ map[string]any) (any, error) {
		return nil, NewToolError("rated", "quota exhausted", "RATE_LIMIT")
	})

	_, err := ratedTool.Call(context.Background(), map[string]any{})
	assert.Error(t, err)

	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, "RATE_LIMIT", toolErr.Code)
	assert.Equal(t, "quota exhausted", toolErr.Message)
}

type echoArgs struct {
	Text string `json:"text" jsonschema_description:"Text to echo back."`
}

func TestFunctionTool_FromStruct(t *testing.T) {
	echoTool := NewFunctionToolFromStruct("echo", "Echoes text", echoArgs{}, func(_ context.Context, args map[string]any) (any, error) {
		return args["text"], nil
	})

	props, ok := echoTool.Parameters()["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, props, "text")

	result, err := echoTool.Call(context.Background(), map[string]any{"text": "hello"})
	assert.NoError(t, err)
	assert.Equal(t, "hello", result)

	// text is required
	_, err = echoTool.Call(context.Background(), map[string]any{})
	assert.Error(t, err)
}

// -------------------- ToolError Formatting --------------------

func TestToolErrorFormatting(t *testing.T) {
	err := NewToolError("demo", "something failed", "E123")
	assert.Contains(t, err.Error(), "E123")
	assert.Contains(t, err.Error(), "demo")

	plain := &ToolError{Tool: "demo", Message: "something failed"}
	assert.Equal(t, "tool error in demo: something failed", plain.Error())
}
