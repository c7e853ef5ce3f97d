package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/model"
)

func TestBuildMessages_RolesAndOrder(t *testing.T) {
	req := model.Request{
		Instructions: "Be concise.",
		Turns: []model.Turn{
			{Role: model.RoleUser, Text: "weather in Tokyo?"},
			{Role: model.RoleAssistant, ToolCalls: []core.ToolCall{
				{ID: "call-1", Name: "get_weather", Arguments: `{"location":"Tokyo"}`},
			}},
			{Role: model.RoleTool, ToolOutputs: []core.ToolOutput{
				{ToolCallID: "call-1", Output: `{"temperature":22}`},
			}},
			{Role: model.RoleAssistant, Text: "22 degrees."},
		},
	}

	messages := buildMessages(req)
	require.Len(t, messages, 5)

	require.NotNil(t, messages[0].OfSystem)
	require.NotNil(t, messages[1].OfUser)

	require.NotNil(t, messages[2].OfAssistant)
	require.Len(t, messages[2].OfAssistant.ToolCalls, 1)
	assert.Equal(t, "call-1", messages[2].OfAssistant.ToolCalls[0].ID)
	assert.Equal(t, "get_weather", messages[2].OfAssistant.ToolCalls[0].Function.Name)

	require.NotNil(t, messages[3].OfTool)
	assert.Equal(t, "call-1", messages[3].OfTool.ToolCallID)

	require.NotNil(t, messages[4].OfAssistant)
}

func TestBuildMessages_NoInstructions(t *testing.T) {
	messages := buildMessages(model.Request{
		Turns: []model.Turn{{Role: model.RoleUser, Text: "hi"}},
	})

	require.Len(t, messages, 1)
	assert.NotNil(t, messages[0].OfUser)
}

func TestBuildTools_SkipsHostedTools(t *testing.T) {
	defs := []core.ToolDefinition{
		core.NewFunctionToolDefinition("get_weather", "Returns the weather", map[string]any{
			"type":       "object",
			"properties": map[string]any{"location": map[string]any{"type": "string"}},
			"required":   []string{"location"},
		}),
		core.NewCodeInterpreterToolDefinition(),
		core.NewFileSearchToolDefinition(),
	}

	tools := buildTools(defs)
	require.Len(t, tools, 1)
	assert.Equal(t, "get_weather", tools[0].Function.Name)
	assert.Equal(t, "Returns the weather", tools[0].Function.Description.Value)
}
