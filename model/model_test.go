package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentloop/core"
)

func TestMockModel_ScriptedResponses(t *testing.T) {
	call := core.ToolCall{ID: "call-1", Name: "get_weather", Arguments: `{"location":"Tokyo"}`}

	m := NewMockModel().Enqueue(
		TextResponse("scripted answer"),
		ToolCallResponse(call),
	)

	first, err := m.Generate(context.Background(), Request{Turns: []Turn{{Role: RoleUser, Text: "hello"}}})
	require.NoError(t, err)
	assert.Equal(t, "scripted answer", first.Text)
	assert.Equal(t, StopReasonStop, first.StopReason)
	assert.Empty(t, first.ToolCalls)

	second, err := m.Generate(context.Background(), Request{Turns: []Turn{{Role: RoleUser, Text: "weather?"}}})
	require.NoError(t, err)
	assert.Equal(t, StopReasonToolCalls, second.StopReason)
	require.Len(t, second.ToolCalls, 1)
	assert.Equal(t, "get_weather", second.ToolCalls[0].Name)

	requests := m.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, "hello", requests[0].Turns[0].Text)
	assert.Equal(t, "weather?", requests[1].Turns[0].Text)
}

func TestMockModel_EchoFallback(t *testing.T) {
	m := NewMockModel()

	resp, err := m.Generate(context.Background(), Request{Turns: []Turn{
		{Role: RoleUser, Text: "first"},
		{Role: RoleAssistant, Text: "noted"},
		{Role: RoleUser, Text: "second"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: second", resp.Text)
	assert.Equal(t, StopReasonStop, resp.StopReason)
}

func TestMockModel_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockModel().Generate(ctx, Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockModel_Info(t *testing.T) {
	info := NewMockModel().Info()
	assert.Equal(t, "mock", info.Provider)
	assert.True(t, info.SupportsTools)
}
