package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentloop/core"
)

func noArgsTool(name string, fn func(ctx context.Context, args map[string]any) (any, error)) *FunctionTool {
	return NewFunctionTool(name, "Test tool", map[string]any{"type": "object", "properties": map[string]any{}}, fn)
}

func decodeResult(t *testing.T, out string) map[string]any {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m), "Execute output must be valid JSON: %s", out)

	return m
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(noArgsTool("a", nil), noArgsTool("b", nil)))

	err := r.Register(noArgsTool("a", nil))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	_, ok := r.Get("a")
	assert.True(t, ok)
	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_Definitions(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewWeatherTool(), NewCalculatorTool()))

	defs := r.Definitions()
	require.Len(t, defs, 2)

	// Sorted by name for deterministic manifests.
	assert.Equal(t, "calculate", defs[0].Function.Name)
	assert.Equal(t, "get_weather", defs[1].Function.Name)

	for _, def := range defs {
		assert.Equal(t, core.ToolTypeFunction, def.Type)
		assert.NotEmpty(t, def.Function.Description)
		assert.NotNil(t, def.Function.Parameters)
	}
}

func TestRegistry_ExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()

	out := r.Execute(context.Background(), "nonexistent", "{}")

	m := decodeResult(t, out)
	assert.Equal(t, "Unknown tool: nonexistent", m["error"])
}

func TestRegistry_ExecuteMalformedArguments(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(noArgsTool("demo", func(_ context.Context, _ map[string]any) (any, error) {
		return "ok", nil
	})))

	out := r.Execute(context.Background(), "demo", `{"broken`)

	m := decodeResult(t, out)
	assert.Contains(t, m["error"], "invalid arguments for demo")
}

func TestRegistry_ExecuteHandlerError(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(noArgsTool("fail", func(_ context.Context, _ map[string]any) (any, error) {
		return nil, NewToolError("fail", "backend unavailable", "EXECUTION_ERROR")
	})))

	out := r.Execute(context.Background(), "fail", "{}")

	m := decodeResult(t, out)
	assert.Contains(t, m["error"], "backend unavailable")
}

func TestRegistry_ExecuteValidationFailure(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewWeatherTool()))

	out := r.Execute(context.Background(), "get_weather", "{}")

	m := decodeResult(t, out)
	assert.Contains(t, m["error"], "validation")
}

func TestRegistry_ExecutePanicRecovered(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(noArgsTool("explode", func(_ context.Context, _ map[string]any) (any, error) {
		panic("kaboom")
	})))

	out := r.Execute(context.Background(), "explode", "{}")

	m := decodeResult(t, out)
	assert.Contains(t, m["error"], "panicked")
	assert.Contains(t, m["error"], "kaboom")
}

func TestRegistry_ExecuteStringPassthrough(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(noArgsTool("raw", func(_ context.Context, _ map[string]any) (any, error) {
		return `{"already":"json"}`, nil
	})))

	out := r.Execute(context.Background(), "raw", "{}")
	assert.Equal(t, `{"already":"json"}`, out)
}

func TestRegistry_ExecutePlainStringQuoted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(noArgsTool("plain", func(_ context.Context, _ map[string]any) (any, error) {
		return "just text", nil
	})))

	out := r.Execute(context.Background(), "plain", "{}")
	assert.Equal(t, `"just text"`, out)
}

func TestRegistry_ExecuteRoundTrip(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(noArgsTool("stats", func(_ context.Context, _ map[string]any) (any, error) {
		return map[string]any{"count": 3.0, "items": []any{"a", "b"}, "ok": true}, nil
	})))

	out := r.Execute(context.Background(), "stats", "{}")

	m := decodeResult(t, out)
	assert.Equal(t, map[string]any{"count": 3.0, "items": []any{"a", "b"}, "ok": true}, m)
}

func TestRegistry_ExecuteEmptyArguments(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(noArgsTool("noargs", func(_ context.Context, args map[string]any) (any, error) {
		return map[string]any{"got": float64(len(args))}, nil
	})))

	for _, arguments := range []string{"", "  ", "null", "{}"} {
		out := r.Execute(context.Background(), "noargs", arguments)
		m := decodeResult(t, out)
		assert.Equal(t, 0.0, m["got"], "arguments %q", arguments)
	}
}
