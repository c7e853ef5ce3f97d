// Package agentloop provides a high-level façade over the core service
// boundary, tool registry, run driver and conversation channel, enabling
// rapid construction of tool-calling agent applications. Most programs
// interact with this package by:
//  1. Creating an AgentLoop via New() around a core.Service (hosted or local)
//  2. Registering function tools (RegisterTools)
//  3. Creating an agent and asking it questions (CreateAgent, Ask)
//
// The façade delegates run driving to runner.Runner and one-shot
// conversations to conversation.Channel while keeping setup ergonomics
// concise. All defaults are safe for tutorials and testing; production
// deployments typically supply a rate-limited service adapter and a
// structured logger.
package agentloop

import (
	"context"
	"time"

	"github.com/hupe1980/agentloop/conversation"
	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/runner"
	"github.com/hupe1980/agentloop/tool"
)

// Options configures the AgentLoop instance.
type Options struct {
	// Registry holds the callable tools dispatched during runs. Defaults to
	// a fresh empty registry; supply a prepared one to share tools across
	// instances.
	Registry *tool.Registry

	// PollInterval is the delay between run status polls. Zero keeps the
	// runner default.
	PollInterval time.Duration

	// MaxPolls caps the number of non-terminal transitions per run. Zero
	// keeps the runner default.
	MaxPolls int

	// MaxWait caps the total elapsed time driving one run. Zero keeps the
	// runner default.
	MaxWait time.Duration

	// MaxParallelTools bounds concurrent tool executions inside one
	// requires_action batch. Zero keeps the runner default (sequential).
	MaxParallelTools int

	// DeleteThread controls whether Ask deletes its throwaway thread after
	// the reply is read.
	DeleteThread bool

	// Logger (defaults to NoOp logger if nil) is shared by every component.
	Logger logging.Logger
}

// AgentLoop is the high-level façade aggregating the service boundary and the
// conversation machinery built on top of it.
type AgentLoop struct {
	svc      core.Service
	registry *tool.Registry
	runner   *runner.Runner
	channel  *conversation.Channel
}

// New creates a new AgentLoop around a service backend with optional
// overrides.
func New(svc core.Service, optFns ...func(o *Options)) *AgentLoop {
	opts := Options{
		Registry:     tool.NewRegistry(),
		DeleteThread: true,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	r := runner.New(svc, opts.Registry, func(o *runner.Options) {
		if opts.PollInterval > 0 {
			o.PollInterval = opts.PollInterval
		}
		if opts.MaxPolls > 0 {
			o.MaxPolls = opts.MaxPolls
		}
		if opts.MaxWait > 0 {
			o.MaxWait = opts.MaxWait
		}
		if opts.MaxParallelTools > 0 {
			o.MaxParallelTools = opts.MaxParallelTools
		}
		o.Logger = opts.Logger
	})

	ch := conversation.New(svc, r, func(o *conversation.Options) {
		o.DeleteThread = opts.DeleteThread
		o.Logger = opts.Logger
	})

	return &AgentLoop{
		svc:      svc,
		registry: opts.Registry,
		runner:   r,
		channel:  ch,
	}
}

// RegisterTools adds function tools to the underlying registry. Register
// during setup, before runs are driven.
func (l *AgentLoop) RegisterTools(tools ...tool.Tool) error {
	return l.registry.Register(tools...)
}

// CreateAgent registers an agent with the backend. When params.Tools is
// empty, the manifest is filled with the definitions of every registered
// tool, keeping the agent and the registry in sync.
func (l *AgentLoop) CreateAgent(ctx context.Context, params core.NewAgentParams) (*core.Agent, error) {
	if len(params.Tools) == 0 {
		params.Tools = l.registry.Definitions()
	}

	return l.svc.CreateAgent(ctx, params)
}

// DeleteAgent removes an agent from the backend.
func (l *AgentLoop) DeleteAgent(ctx context.Context, agentID string) error {
	return l.svc.DeleteAgent(ctx, agentID)
}

// Ask runs a single prompt against an agent on a fresh thread and returns the
// agent's reply. See conversation.Channel.Ask for the full contract.
func (l *AgentLoop) Ask(ctx context.Context, agent *core.Agent, prompt string) (string, error) {
	return l.channel.Ask(ctx, agent, prompt)
}

// ProcessRun creates a run for the thread/agent pair and drives it to a
// terminal state, dispatching tool calls along the way.
func (l *AgentLoop) ProcessRun(ctx context.Context, threadID, agentID string) (*core.Run, error) {
	return l.runner.ProcessRun(ctx, threadID, agentID)
}

// Service exposes the wrapped backend for direct thread and message work.
func (l *AgentLoop) Service() core.Service { return l.svc }

// Registry exposes the tool registry.
func (l *AgentLoop) Registry() *tool.Registry { return l.registry }

// Runner exposes the run driver for caller-stepped execution.
func (l *AgentLoop) Runner() *runner.Runner { return l.runner }

// Channel exposes the conversation channel.
func (l *AgentLoop) Channel() *conversation.Channel { return l.channel }
