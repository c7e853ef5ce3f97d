package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
)

// RegistryOptions holds configuration overrides passed to NewRegistry().
type RegistryOptions struct {
	// Logging services.
	Logger logging.Logger
}

// Registry maps tool names to implementations and executes requested calls.
//
// Register all tools during setup; afterwards the table is read-only and
// Execute is safe for concurrent use without locking. Execute is total: every
// failure mode (unknown tool, malformed arguments, validation, handler error,
// handler panic) is converted into a JSON {"error": ...} result so the
// owning run always receives an output and can proceed.
type Registry struct {
	tools  map[string]Tool
	logger logging.Logger
}

// NewRegistry constructs an empty Registry with optional overrides.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Registry{
		tools:  make(map[string]Tool),
		logger: opts.Logger,
	}
}

// Register adds tools to the registry. Empty or duplicate names are rejected.
// Register is only legal during setup, before the registry is shared across
// goroutines.
func (r *Registry) Register(tools ...Tool) error {
	for _, t := range tools {
		name := t.Name()
		if name == "" {
			return fmt.Errorf("tool name must not be empty")
		}
		if _, exists := r.tools[name]; exists {
			return fmt.Errorf("tool already registered: %s", name)
		}

		r.tools[name] = t
	}

	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Definitions returns the function manifest for agent creation, sorted by
// tool name for deterministic output.
func (r *Registry) Definitions() []core.ToolDefinition {
	defs := make([]core.ToolDefinition, 0, len(r.tools))
	for _, name := range r.Names() {
		defs = append(defs, Definition(r.tools[name]))
	}

	return defs
}

// Execute runs the named tool against a JSON argument payload and returns the
// JSON result text to submit as the tool call's output.
//
// Execute never returns a Go error and never lets a panic escape:
//
//	unknown tool          -> {"error": "Unknown tool: <name>"}
//	malformed arguments   -> {"error": "invalid arguments for <name>: ..."}
//	validation / handler  -> {"error": ...}
//	handler panic         -> {"error": "tool <name> panicked: ..."}
//
// String results that already contain valid JSON are passed through; all
// other results are JSON-marshalled.
func (r *Registry) Execute(ctx context.Context, name, arguments string) (out string) {
	start := time.Now()

	r.logger.Debug("tool.call.start", "tool", name)

	t, ok := r.tools[name]
	if !ok {
		r.logger.Warn("tool.call.unknown", "tool", name)
		return errorResult(fmt.Sprintf("Unknown tool: %s", name))
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool.call.panic", "tool", name, "panic", fmt.Sprintf("%v", rec))
			out = errorResult(fmt.Sprintf("tool %s panicked: %v", name, rec))
		}
	}()

	args := map[string]any{}
	if trimmed := strings.TrimSpace(arguments); trimmed != "" && trimmed != "null" {
		if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
			r.logger.Warn("tool.call.bad_arguments", "tool", name, "error", err.Error())
			return errorResult(fmt.Sprintf("invalid arguments for %s: %v", name, err))
		}
	}

	result, err := t.Call(ctx, args)
	if err != nil {
		r.logger.Error("tool.call.error", "tool", name, "error", err.Error(), "duration_ms", time.Since(start).Milliseconds())
		return errorResult(err.Error())
	}

	r.logger.Info("tool.call.success", "tool", name, "duration_ms", time.Since(start).Milliseconds())

	return encodeResult(name, result)
}

// encodeResult serializes a tool result to JSON text. Strings that already
// hold valid JSON pass through untouched so handlers can pre-serialize.
func encodeResult(name string, result any) string {
	if s, ok := result.(string); ok {
		if json.Valid([]byte(s)) {
			return s
		}

		data, _ := json.Marshal(s) // marshalling a string cannot fail
		return string(data)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to encode result of %s: %v", name, err))
	}

	return string(data)
}

// errorResult builds the structured {"error": ...} output payload.
func errorResult(message string) string {
	data, _ := json.Marshal(map[string]string{"error": message})
	return string(data)
}
