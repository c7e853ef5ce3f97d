package core

import "testing"

func TestNewID_Uniqueness(t *testing.T) {
	a := NewID()
	b := NewID()
	if a == b {
		t.Error("Expected unique IDs")
	}
	if a == "" || b == "" {
		t.Error("Expected non-empty IDs")
	}
}

func TestToolDefinition_Constructors(t *testing.T) {
	fn := NewFunctionToolDefinition("get_weather", "Gets weather", map[string]any{"type": "object"})
	if fn.Type != ToolTypeFunction || fn.Function == nil {
		t.Fatalf("Function tool definition malformed: %+v", fn)
	}
	if fn.Function.Name != "get_weather" || fn.Function.Description != "Gets weather" {
		t.Fatalf("Function definition fields not set: %+v", fn.Function)
	}

	ci := NewCodeInterpreterToolDefinition()
	if ci.Type != ToolTypeCodeInterpreter || ci.Function != nil {
		t.Fatalf("Code interpreter definition malformed: %+v", ci)
	}

	fs := NewFileSearchToolDefinition()
	if fs.Type != ToolTypeFileSearch || fs.Function != nil {
		t.Fatalf("File search definition malformed: %+v", fs)
	}
}
