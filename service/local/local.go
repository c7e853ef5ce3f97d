package local

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/model"
)

// Options holds configuration overrides passed to New().
type Options struct {
	// MaxTurns bounds the model turns a single run may consume before it is
	// terminated as failed. 0 means unlimited.
	MaxTurns int
	// Logging services.
	Logger logging.Logger
}

// Service is an in-memory core.Service emulation. Agents, threads, messages
// and runs live in maps guarded by one RWMutex; runs execute on background
// goroutines against the configured chat model, detached from the creating
// context the way a hosted run would be.
//
// All returned structs are defensive copies.
type Service struct {
	model    model.Model
	maxTurns int
	logger   logging.Logger

	mu      sync.RWMutex
	agents  map[string]*core.Agent
	threads map[string]*threadState
	runs    map[string]*runState
	files   map[string]*fileEntry
	stores  map[string]*core.VectorStore
}

type threadState struct {
	thread   core.Thread
	messages []core.Message // oldest first
}

// runState carries the run snapshot plus the execution bookkeeping: the
// transcript sent to the model, the ids still awaiting outputs, and the
// per-run turn budget.
type runState struct {
	run          core.Run
	instructions string
	modelName    string
	tools        []core.ToolDefinition
	turns        []model.Turn
	pending      map[string]struct{}
	limiter      *core.TurnLimiter
}

// New constructs a Service executing runs against m.
func New(m model.Model, optFns ...func(o *Options)) *Service {
	opts := Options{
		MaxTurns: 10,
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Service{
		model:    m,
		maxTurns: opts.MaxTurns,
		logger:   opts.Logger,
		agents:   make(map[string]*core.Agent),
		threads:  make(map[string]*threadState),
		runs:     make(map[string]*runState),
		files:    make(map[string]*fileEntry),
		stores:   make(map[string]*core.VectorStore),
	}
}

// CreateAgent implements core.Service.
func (s *Service) CreateAgent(_ context.Context, params core.NewAgentParams) (*core.Agent, error) {
	if params.Model == "" {
		return nil, errors.New("model is required")
	}

	agent := &core.Agent{
		ID:           "asst_" + core.NewID(),
		Name:         params.Name,
		Model:        params.Model,
		Instructions: params.Instructions,
		Tools:        append([]core.ToolDefinition(nil), params.Tools...),
		CreatedAt:    time.Now(),
	}

	s.mu.Lock()
	s.agents[agent.ID] = agent
	s.mu.Unlock()

	s.logger.Debug("local.agent.created", "agent_id", agent.ID, "name", agent.Name)

	return copyAgent(agent), nil
}

// DeleteAgent implements core.Service.
func (s *Service) DeleteAgent(_ context.Context, agentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.agents[agentID]; !ok {
		return fmt.Errorf("agent not found: %s", agentID)
	}
	delete(s.agents, agentID)

	return nil
}

// CreateThread implements core.Service.
func (s *Service) CreateThread(context.Context) (*core.Thread, error) {
	thread := core.Thread{
		ID:        "thread_" + core.NewID(),
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.threads[thread.ID] = &threadState{thread: thread}
	s.mu.Unlock()

	cp := thread
	return &cp, nil
}

// DeleteThread implements core.Service.
func (s *Service) DeleteThread(_ context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.threads[threadID]; !ok {
		return fmt.Errorf("thread not found: %s", threadID)
	}
	delete(s.threads, threadID)

	return nil
}

// CreateMessage implements core.Service.
func (s *Service) CreateMessage(_ context.Context, threadID string, role core.Role, text string) (*core.Message, error) {
	if role != core.RoleUser && role != core.RoleAssistant {
		return nil, fmt.Errorf("unsupported message role: %s", role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.threads[threadID]
	if !ok {
		return nil, fmt.Errorf("thread not found: %s", threadID)
	}

	msg := core.Message{
		ID:        "msg_" + core.NewID(),
		ThreadID:  threadID,
		Role:      role,
		Parts:     []core.Part{core.TextPart{Text: text}},
		CreatedAt: time.Now(),
	}
	ts.messages = append(ts.messages, msg)

	cp := copyMessage(msg)
	return &cp, nil
}

// ListMessages implements core.Service; messages come back newest first.
func (s *Service) ListMessages(_ context.Context, threadID string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ts, ok := s.threads[threadID]
	if !ok {
		return nil, fmt.Errorf("thread not found: %s", threadID)
	}

	messages := make([]core.Message, 0, len(ts.messages))
	for i := len(ts.messages) - 1; i >= 0; i-- {
		messages = append(messages, copyMessage(ts.messages[i]))
	}

	return messages, nil
}

func copyAgent(agent *core.Agent) *core.Agent {
	cp := *agent
	cp.Tools = append([]core.ToolDefinition(nil), agent.Tools...)
	return &cp
}

func copyMessage(msg core.Message) core.Message {
	cp := msg
	cp.Parts = append([]core.Part(nil), msg.Parts...)
	return cp
}

func copyRun(run core.Run) *core.Run {
	cp := run
	if run.RequiredAction != nil {
		cp.RequiredAction = &core.RequiredAction{
			ToolCalls: append([]core.ToolCall(nil), run.RequiredAction.ToolCalls...),
		}
	}
	if run.LastError != nil {
		lastErr := *run.LastError
		cp.LastError = &lastErr
	}
	return &cp
}
