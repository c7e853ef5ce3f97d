package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/runner"
	"github.com/hupe1980/agentloop/tool"
)

type postedMessage struct {
	threadID string
	role     core.Role
	text     string
}

// askService scripts the service interactions one Ask performs: a thread,
// one posted message, a run that lands directly in finalStatus, and a fixed
// message listing (newest first).
type askService struct {
	createThreadErr error
	deleteThreadErr error
	listErr         error
	finalStatus     core.RunStatus
	lastError       *core.RunError
	messages        []core.Message

	posted         []postedMessage
	deletedThreads []string
}

func (s *askService) CreateThread(context.Context) (*core.Thread, error) {
	if s.createThreadErr != nil {
		return nil, s.createThreadErr
	}
	return &core.Thread{ID: "thread-1"}, nil
}

func (s *askService) DeleteThread(_ context.Context, threadID string) error {
	s.deletedThreads = append(s.deletedThreads, threadID)
	return s.deleteThreadErr
}

func (s *askService) CreateMessage(_ context.Context, threadID string, role core.Role, text string) (*core.Message, error) {
	s.posted = append(s.posted, postedMessage{threadID: threadID, role: role, text: text})
	return &core.Message{ID: "msg-1", ThreadID: threadID, Role: role, Parts: []core.Part{core.TextPart{Text: text}}}, nil
}

func (s *askService) ListMessages(context.Context, string) ([]core.Message, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.messages, nil
}

func (s *askService) CreateRun(_ context.Context, threadID, agentID string) (*core.Run, error) {
	status := s.finalStatus
	if status == "" {
		status = core.RunStatusCompleted
	}
	return &core.Run{ID: "run-1", ThreadID: threadID, AgentID: agentID, Status: status, LastError: s.lastError}, nil
}

func (s *askService) GetRun(context.Context, string, string) (*core.Run, error) {
	return nil, errors.New("not implemented")
}

func (s *askService) SubmitToolOutputs(context.Context, string, string, []core.ToolOutput) (*core.Run, error) {
	return nil, errors.New("not implemented")
}

func (s *askService) CreateAgent(context.Context, core.NewAgentParams) (*core.Agent, error) {
	return nil, errors.New("not implemented")
}

func (s *askService) DeleteAgent(context.Context, string) error {
	return errors.New("not implemented")
}

func assistantMessage(texts ...string) core.Message {
	parts := make([]core.Part, len(texts))
	for i, text := range texts {
		parts[i] = core.TextPart{Text: text}
	}
	return core.Message{ID: core.NewID(), Role: core.RoleAssistant, Parts: parts}
}

func userMessage(text string) core.Message {
	return core.Message{ID: core.NewID(), Role: core.RoleUser, Parts: []core.Part{core.TextPart{Text: text}}}
}

func testChannel(svc core.Service, optFns ...func(o *Options)) *Channel {
	r := runner.New(svc, tool.NewRegistry(), func(o *runner.Options) {
		o.PollInterval = time.Millisecond
	})
	return New(svc, r, optFns...)
}

func testAgent() *core.Agent {
	return &core.Agent{ID: "agent-1", Name: "helper", Model: "gpt-4o"}
}

func TestChannel_Ask_ReturnsNewestAssistantReply(t *testing.T) {
	svc := &askService{messages: []core.Message{
		userMessage("follow-up noise"),
		assistantMessage("newest reply"),
		assistantMessage("older reply"),
		userMessage("original question"),
	}}

	reply, err := testChannel(svc).Ask(context.Background(), testAgent(), "original question")
	require.NoError(t, err)
	assert.Equal(t, "newest reply", reply)

	require.Len(t, svc.posted, 1)
	assert.Equal(t, "thread-1", svc.posted[0].threadID)
	assert.Equal(t, core.RoleUser, svc.posted[0].role)
	assert.Equal(t, "original question", svc.posted[0].text)

	assert.Equal(t, []string{"thread-1"}, svc.deletedThreads)
}

func TestChannel_Ask_ConcatenatesTextParts(t *testing.T) {
	msg := core.Message{
		ID:   core.NewID(),
		Role: core.RoleAssistant,
		Parts: []core.Part{
			core.TextPart{Text: "Hello, "},
			core.ImageFilePart{FileID: "file-1"},
			core.TextPart{Text: "world"},
		},
	}
	svc := &askService{messages: []core.Message{msg}}

	reply, err := testChannel(svc).Ask(context.Background(), testAgent(), "greet me")
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", reply)
}

func TestChannel_Ask_NoAssistantMessage(t *testing.T) {
	svc := &askService{messages: []core.Message{userMessage("only me here")}}

	reply, err := testChannel(svc).Ask(context.Background(), testAgent(), "anyone home?")
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestChannel_Ask_FailedRun(t *testing.T) {
	svc := &askService{
		finalStatus: core.RunStatusFailed,
		lastError:   &core.RunError{Code: "server_error", Message: "backend exploded"},
	}

	reply, err := testChannel(svc).Ask(context.Background(), testAgent(), "doomed")
	require.Error(t, err)
	assert.Empty(t, reply)

	var runErr *core.RunError
	require.True(t, errors.As(err, &runErr))
	assert.Equal(t, "server_error", runErr.Code)

	// The throwaway thread is still cleaned up.
	assert.Equal(t, []string{"thread-1"}, svc.deletedThreads)
}

func TestChannel_Ask_ExpiredRunWithoutLastError(t *testing.T) {
	svc := &askService{finalStatus: core.RunStatusExpired}

	_, err := testChannel(svc).Ask(context.Background(), testAgent(), "slow")
	require.Error(t, err)

	var runErr *core.RunError
	require.True(t, errors.As(err, &runErr))
	assert.Contains(t, runErr.Message, "expired")
}

func TestChannel_Ask_DeleteFailureSwallowed(t *testing.T) {
	svc := &askService{
		deleteThreadErr: errors.New("already gone"),
		messages:        []core.Message{assistantMessage("still fine")},
	}

	reply, err := testChannel(svc).Ask(context.Background(), testAgent(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "still fine", reply)
	assert.Len(t, svc.deletedThreads, 1)
}

func TestChannel_Ask_KeepThread(t *testing.T) {
	svc := &askService{messages: []core.Message{assistantMessage("kept")}}

	channel := testChannel(svc, func(o *Options) {
		o.DeleteThread = false
	})

	reply, err := channel.Ask(context.Background(), testAgent(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "kept", reply)
	assert.Empty(t, svc.deletedThreads)
}

func TestChannel_Ask_CreateThreadError(t *testing.T) {
	svc := &askService{createThreadErr: errors.New("quota exceeded")}

	_, err := testChannel(svc).Ask(context.Background(), testAgent(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create thread")
	assert.Empty(t, svc.deletedThreads)
}

func TestChannel_Ask_ListMessagesError(t *testing.T) {
	svc := &askService{listErr: errors.New("boom")}

	_, err := testChannel(svc).Ask(context.Background(), testAgent(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list messages")
}

func TestChannel_Ask_NilAgent(t *testing.T) {
	_, err := testChannel(&askService{}).Ask(context.Background(), nil, "hi")
	require.Error(t, err)
}
