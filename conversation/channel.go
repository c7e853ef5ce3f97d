package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/runner"
)

// Options holds configuration overrides passed to New().
type Options struct {
	// Logging services.
	Logger logging.Logger
	// DeleteThread controls whether Ask deletes its throwaway thread before
	// returning. Enabled by default; disable it to inspect threads afterwards.
	DeleteThread bool
}

// Channel runs one-shot prompts against an agent, using a fresh thread per
// ask so exchanges never leak context into each other.
type Channel struct {
	svc          core.Service
	runner       *runner.Runner
	logger       logging.Logger
	deleteThread bool
}

// New constructs a Channel over the given service and runner.
func New(svc core.Service, r *runner.Runner, optFns ...func(o *Options)) *Channel {
	opts := Options{
		Logger:       logging.NoOpLogger{},
		DeleteThread: true,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Channel{
		svc:          svc,
		runner:       r,
		logger:       opts.Logger,
		deleteThread: opts.DeleteThread,
	}
}

// Ask posts prompt as a user message on a fresh thread, drives a run of the
// agent over it, and returns the agent's reply text.
//
// A run that ends in a terminal failure state comes back as a *core.RunError,
// so callers can tell an agent-side failure from a transport fault with
// errors.As. A completed run without an assistant message yields ("", nil).
func (c *Channel) Ask(ctx context.Context, agent *core.Agent, prompt string) (string, error) {
	if agent == nil {
		return "", errors.New("agent must not be nil")
	}

	thread, err := c.svc.CreateThread(ctx)
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}

	if c.deleteThread {
		defer c.cleanupThread(ctx, thread.ID)
	}

	if _, err := c.svc.CreateMessage(ctx, thread.ID, core.RoleUser, prompt); err != nil {
		return "", fmt.Errorf("create message: %w", err)
	}

	run, err := c.runner.ProcessRun(ctx, thread.ID, agent.ID)
	if err != nil {
		return "", err
	}

	if run.Status != core.RunStatusCompleted {
		return "", runFailure(run)
	}

	messages, err := c.svc.ListMessages(ctx, thread.ID)
	if err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}

	// Messages arrive newest first; the first assistant entry is the reply.
	for _, msg := range messages {
		if msg.Role == core.RoleAssistant {
			return msg.Text(), nil
		}
	}

	return "", nil
}

// runFailure converts a terminally failed run into a typed error.
func runFailure(run *core.Run) error {
	if run.LastError != nil {
		return run.LastError
	}

	return &core.RunError{Message: fmt.Sprintf("run %s ended %s", run.ID, run.Status)}
}

// cleanupThread deletes the throwaway thread. Failures are logged and
// swallowed; deletion still runs when the surrounding context was cancelled.
func (c *Channel) cleanupThread(ctx context.Context, threadID string) {
	if err := c.svc.DeleteThread(context.WithoutCancel(ctx), threadID); err != nil {
		c.logger.Warn("conversation.thread.delete_failed", "thread_id", threadID, "error", err.Error())
		return
	}

	c.logger.Debug("conversation.thread.deleted", "thread_id", threadID)
}
