package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"golang.org/x/time/rate"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
)

// Options configure the hosted service adapter.
type Options struct {
	// Limiter throttles outgoing API calls. Every request waits for a
	// token before hitting the network. Nil disables client side limiting.
	Limiter *rate.Limiter

	// Logger used for structured diagnostics.
	Logger logging.Logger
}

// Service adapts the OpenAI Assistants API to core.Service. It also satisfies
// core.FileService and core.VectorStoreService, so file uploads and vector
// stores are available via type assertion on the core.Service value.
type Service struct {
	client  *openai.Client
	limiter *rate.Limiter
	logger  logging.Logger
}

// NewService creates a Service using the default client, which reads
// OPENAI_API_KEY from the environment.
func NewService(optFns ...func(o *Options)) *Service {
	client := openai.NewClient()
	return NewServiceFromClient(&client, optFns...)
}

// NewServiceFromClient creates a Service from an existing client.
func NewServiceFromClient(client *openai.Client, optFns ...func(o *Options)) *Service {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Service{
		client:  client,
		limiter: opts.Limiter,
		logger:  opts.Logger,
	}
}

// CreateAgent registers a new assistant and returns it as an agent. The tool
// manifest from params is carried over verbatim so callers can inspect what
// was registered without re-deriving it from the wire shape.
func (s *Service) CreateAgent(ctx context.Context, params core.NewAgentParams) (*core.Agent, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	body := openai.BetaAssistantNewParams{
		Model: params.Model,
	}

	if params.Name != "" {
		body.Name = openai.String(params.Name)
	}

	if params.Instructions != "" {
		body.Instructions = openai.String(params.Instructions)
	}

	if tools := buildAssistantTools(params.Tools); len(tools) > 0 {
		body.Tools = tools
	}

	if params.ToolResources != nil {
		body.ToolResources = buildToolResources(params.ToolResources)
	}

	assistant, err := s.client.Beta.Assistants.New(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("create assistant: %w", err)
	}

	s.logger.Debug("openai.agent.created", "agent_id", assistant.ID, "model", assistant.Model)

	agent := mapAgent(assistant)
	agent.Tools = params.Tools

	return agent, nil
}

// DeleteAgent removes an assistant.
func (s *Service) DeleteAgent(ctx context.Context, agentID string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	if _, err := s.client.Beta.Assistants.Delete(ctx, agentID); err != nil {
		return fmt.Errorf("delete assistant %s: %w", agentID, err)
	}

	s.logger.Debug("openai.agent.deleted", "agent_id", agentID)

	return nil
}

// CreateThread starts a new empty thread.
func (s *Service) CreateThread(ctx context.Context) (*core.Thread, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	thread, err := s.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}

	s.logger.Debug("openai.thread.created", "thread_id", thread.ID)

	return &core.Thread{
		ID:        thread.ID,
		CreatedAt: time.Unix(thread.CreatedAt, 0),
	}, nil
}

// DeleteThread removes a thread and its messages.
func (s *Service) DeleteThread(ctx context.Context, threadID string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	if _, err := s.client.Beta.Threads.Delete(ctx, threadID); err != nil {
		return fmt.Errorf("delete thread %s: %w", threadID, err)
	}

	s.logger.Debug("openai.thread.deleted", "thread_id", threadID)

	return nil
}

// CreateMessage appends a text message to a thread.
func (s *Service) CreateMessage(ctx context.Context, threadID string, role core.Role, text string) (*core.Message, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	msg, err := s.client.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRole(role),
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	mapped := mapMessage(*msg)

	return &mapped, nil
}

// ListMessages returns the thread's messages, newest first.
func (s *Service) ListMessages(ctx context.Context, threadID string) ([]core.Message, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	page, err := s.client.Beta.Threads.Messages.List(ctx, threadID, openai.BetaThreadMessageListParams{
		Order: openai.BetaThreadMessageListParamsOrderDesc,
		Limit: openai.Int(100),
	})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	messages := make([]core.Message, 0, len(page.Data))
	for _, msg := range page.Data {
		messages = append(messages, mapMessage(msg))
	}

	return messages, nil
}

// CreateRun starts executing an agent against a thread.
func (s *Service) CreateRun(ctx context.Context, threadID, agentID string) (*core.Run, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	run, err := s.client.Beta.Threads.Runs.New(ctx, threadID, openai.BetaThreadRunNewParams{
		AssistantID: agentID,
	})
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	s.logger.Debug("openai.run.created", "run_id", run.ID, "thread_id", threadID, "agent_id", agentID)

	return mapRun(run), nil
}

// GetRun returns a fresh snapshot of a run.
func (s *Service) GetRun(ctx context.Context, threadID, runID string) (*core.Run, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	run, err := s.client.Beta.Threads.Runs.Get(ctx, threadID, runID)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}

	return mapRun(run), nil
}

// SubmitToolOutputs resumes a requires_action run with the collected tool
// results.
func (s *Service) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []core.ToolOutput) (*core.Run, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	run, err := s.client.Beta.Threads.Runs.SubmitToolOutputs(ctx, threadID, runID, openai.BetaThreadRunSubmitToolOutputsParams{
		ToolOutputs: buildToolOutputs(outputs),
	})
	if err != nil {
		return nil, fmt.Errorf("submit tool outputs for run %s: %w", runID, err)
	}

	s.logger.Debug("openai.run.outputs_submitted", "run_id", runID, "outputs", len(outputs))

	return mapRun(run), nil
}

// wait blocks until the limiter admits another request. A nil limiter admits
// immediately.
func (s *Service) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	return nil
}
