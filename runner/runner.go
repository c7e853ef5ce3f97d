package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
	"github.com/hupe1980/agentloop/tool"
)

var (
	// ErrPollLimit marks a run abandoned after the configured number of polls.
	ErrPollLimit = errors.New("run poll limit exceeded")
	// ErrWaitLimit marks a run abandoned after the configured elapsed time.
	ErrWaitLimit = errors.New("run wait limit exceeded")
)

// Options holds configuration overrides passed to New().
type Options struct {
	// PollInterval is the delay between run status polls.
	PollInterval time.Duration
	// MaxPolls caps the number of non-terminal transitions per run (0 = uncapped).
	MaxPolls int
	// MaxWait caps the total elapsed time driving one run (0 = uncapped).
	MaxWait time.Duration
	// MaxParallelTools bounds concurrent tool executions inside one
	// requires_action batch. 1 executes sequentially.
	MaxParallelTools int
	// Logging services.
	Logger logging.Logger
}

// Runner drives runs against a core.Service to a terminal state, dispatching
// requested tool calls through a tool.Registry. Public methods are safe for
// concurrent use; each call drives its own run.
type Runner struct {
	svc      core.Service
	registry *tool.Registry

	pollInterval     time.Duration
	maxPolls         int
	maxWait          time.Duration
	maxParallelTools int
	logger           logging.Logger
}

// New constructs a Runner with optional overrides.
func New(svc core.Service, registry *tool.Registry, optFns ...func(o *Options)) *Runner {
	opts := Options{
		PollInterval:     time.Second,
		MaxPolls:         120,
		MaxWait:          10 * time.Minute,
		MaxParallelTools: 1,
		Logger:           logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxParallelTools < 1 {
		opts.MaxParallelTools = 1
	}

	return &Runner{
		svc:              svc,
		registry:         registry,
		pollInterval:     opts.PollInterval,
		maxPolls:         opts.MaxPolls,
		maxWait:          opts.MaxWait,
		maxParallelTools: opts.MaxParallelTools,
		logger:           opts.Logger,
	}
}

// ProcessRun creates a run for the thread/agent pair and drives it to a
// terminal state. It is the blocking convenience over CreateRun + Wait.
func (r *Runner) ProcessRun(ctx context.Context, threadID, agentID string) (*core.Run, error) {
	run, err := r.svc.CreateRun(ctx, threadID, agentID)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	r.logger.Debug("runner.run.created", "run_id", run.ID, "thread_id", threadID, "agent_id", agentID)

	return r.Wait(ctx, run)
}

// Wait drives an existing run to a terminal state, sleeping PollInterval
// between transitions and honoring the MaxPolls / MaxWait caps. A run that
// ends failed (or cancelled, expired, incomplete) is returned with a nil
// error; its LastError carries the failure detail.
func (r *Runner) Wait(ctx context.Context, run *core.Run) (*core.Run, error) {
	if run == nil {
		return nil, errors.New("run must not be nil")
	}

	start := time.Now()

	for polls := 0; ; {
		next, done, err := r.Step(ctx, run)
		if err != nil {
			return nil, err
		}
		if done {
			r.logOutcome(next, polls, time.Since(start))
			return next, nil
		}
		run = next

		polls++
		if r.maxPolls > 0 && polls >= r.maxPolls {
			return nil, fmt.Errorf("run %s still %s after %d polls: %w", run.ID, run.Status, polls, ErrPollLimit)
		}
		if r.maxWait > 0 && time.Since(start) >= r.maxWait {
			return nil, fmt.Errorf("run %s still %s after %s: %w", run.ID, run.Status, time.Since(start).Round(time.Millisecond), ErrWaitLimit)
		}

		if err := r.sleep(ctx); err != nil {
			return nil, err
		}
	}
}

// Step performs exactly one transition of the run state machine and returns
// the fresh run snapshot. done reports a terminal state.
//
//   - terminal run     -> returned as-is, done = true
//   - requires_action  -> execute the pending tool calls, submit outputs once
//   - anything else    -> one fresh poll
//
// Callers using Step directly control the pacing themselves; Wait wraps Step
// with the configured poll cadence and caps. Both reach identical outcomes.
func (r *Runner) Step(ctx context.Context, run *core.Run) (*core.Run, bool, error) {
	if run == nil {
		return nil, false, errors.New("run must not be nil")
	}

	if run.Status.Terminal() {
		return run, true, nil
	}

	if run.Status == core.RunStatusRequiresAction {
		next, err := r.submitRequiredOutputs(ctx, run)
		if err != nil {
			return nil, false, err
		}
		return next, next.Status.Terminal(), nil
	}

	next, err := r.svc.GetRun(ctx, run.ThreadID, run.ID)
	if err != nil {
		return nil, false, fmt.Errorf("get run: %w", err)
	}

	r.logger.Debug("runner.run.polled", "run_id", next.ID, "status", string(next.Status))

	return next, next.Status.Terminal(), nil
}

// submitRequiredOutputs executes the snapshot of pending tool calls and
// submits their outputs in one batch. Outputs cover exactly the snapshot's
// call ids, each once, in snapshot order.
func (r *Runner) submitRequiredOutputs(ctx context.Context, run *core.Run) (*core.Run, error) {
	calls := dedupeCalls(run.PendingToolCalls())
	if len(calls) == 0 {
		return nil, fmt.Errorf("run %s requires action but has no pending tool calls", run.ID)
	}

	r.logger.Debug("runner.tools.dispatch", "run_id", run.ID, "count", len(calls))

	outputs := r.executeCalls(ctx, calls)

	next, err := r.svc.SubmitToolOutputs(ctx, run.ThreadID, run.ID, outputs)
	if err != nil {
		return nil, fmt.Errorf("submit tool outputs: %w", err)
	}

	return next, nil
}

// executeCalls runs every call through the registry and returns the outputs
// in snapshot order. Failures never abort the batch: the registry converts
// them into error-shaped outputs per call.
func (r *Runner) executeCalls(ctx context.Context, calls []core.ToolCall) []core.ToolOutput {
	outputs := make([]core.ToolOutput, len(calls))

	if r.maxParallelTools == 1 || len(calls) == 1 {
		for i, call := range calls {
			outputs[i] = core.ToolOutput{
				ToolCallID: call.ID,
				Output:     r.registry.Execute(ctx, call.Name, call.Arguments),
			}
		}
		return outputs
	}

	sem := make(chan struct{}, r.maxParallelTools)
	var wg sync.WaitGroup

	for i, call := range calls {
		wg.Add(1)
		go func(i int, call core.ToolCall) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			outputs[i] = core.ToolOutput{
				ToolCallID: call.ID,
				Output:     r.registry.Execute(ctx, call.Name, call.Arguments),
			}
		}(i, call)
	}

	wg.Wait()

	return outputs
}

// dedupeCalls drops repeated call ids, keeping the first occurrence order.
func dedupeCalls(calls []core.ToolCall) []core.ToolCall {
	seen := make(map[string]struct{}, len(calls))
	deduped := make([]core.ToolCall, 0, len(calls))

	for _, call := range calls {
		if _, dup := seen[call.ID]; dup {
			continue
		}
		seen[call.ID] = struct{}{}
		deduped = append(deduped, call)
	}

	return deduped
}

func (r *Runner) logOutcome(run *core.Run, polls int, elapsed time.Duration) {
	if run.Status == core.RunStatusCompleted {
		r.logger.Info("runner.run.completed", "run_id", run.ID, "polls", polls, "duration_ms", elapsed.Milliseconds())
		return
	}

	args := []any{"run_id", run.ID, "status", string(run.Status), "polls", polls, "duration_ms", elapsed.Milliseconds()}
	if run.LastError != nil {
		args = append(args, "error_code", run.LastError.Code, "error", run.LastError.Message)
	}

	r.logger.Warn("runner.run.failed", args...)
}

// sleep pauses for the poll interval, waking early on context cancellation.
func (r *Runner) sleep(ctx context.Context) error {
	timer := time.NewTimer(r.pollInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
