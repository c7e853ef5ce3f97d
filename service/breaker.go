package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/logging"
)

// Options configure the Breaker decorator.
type Options struct {
	// Name identifies the breaker in state change logs.
	Name string

	// MaxFailures is the number of consecutive failures before the circuit
	// opens.
	MaxFailures uint32

	// Timeout is how long the circuit stays open before a single probe
	// request is allowed through.
	Timeout time.Duration

	// Interval is the cyclic period of the closed state for clearing
	// failure counts. Zero means counts never reset while closed.
	Interval time.Duration

	// Logger used for structured diagnostics.
	Logger logging.Logger
}

// Breaker wraps a core.Service with circuit breaker protection. When the
// wrapped backend fails repeatedly, the circuit opens and subsequent calls
// fail fast without reaching it, preventing retry storms against a degraded
// API. Context cancellations are not counted as backend failures.
type Breaker struct {
	inner core.Service
	cb    *gobreaker.CircuitBreaker[any]
}

// NewBreaker wraps inner with a circuit breaker.
func NewBreaker(inner core.Service, optFns ...func(o *Options)) *Breaker {
	opts := Options{
		Name:        "service",
		MaxFailures: 5,
		Timeout:     30 * time.Second,
		Interval:    60 * time.Second,
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.Logger

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 1, // allow 1 probe in half-open state
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("service.breaker.state_changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// A caller giving up is not a backend fault.
			return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	})

	return &Breaker{inner: inner, cb: cb}
}

// State returns the current circuit state for monitoring.
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

// Counts returns the current failure/success counts.
func (b *Breaker) Counts() gobreaker.Counts { return b.cb.Counts() }

// CreateAgent implements core.Service.
func (b *Breaker) CreateAgent(ctx context.Context, params core.NewAgentParams) (*core.Agent, error) {
	return execute(b, func() (*core.Agent, error) {
		return b.inner.CreateAgent(ctx, params)
	})
}

// DeleteAgent implements core.Service.
func (b *Breaker) DeleteAgent(ctx context.Context, agentID string) error {
	_, err := execute(b, func() (struct{}, error) {
		return struct{}{}, b.inner.DeleteAgent(ctx, agentID)
	})

	return err
}

// CreateThread implements core.Service.
func (b *Breaker) CreateThread(ctx context.Context) (*core.Thread, error) {
	return execute(b, func() (*core.Thread, error) {
		return b.inner.CreateThread(ctx)
	})
}

// DeleteThread implements core.Service.
func (b *Breaker) DeleteThread(ctx context.Context, threadID string) error {
	_, err := execute(b, func() (struct{}, error) {
		return struct{}{}, b.inner.DeleteThread(ctx, threadID)
	})

	return err
}

// CreateMessage implements core.Service.
func (b *Breaker) CreateMessage(ctx context.Context, threadID string, role core.Role, text string) (*core.Message, error) {
	return execute(b, func() (*core.Message, error) {
		return b.inner.CreateMessage(ctx, threadID, role, text)
	})
}

// ListMessages implements core.Service.
func (b *Breaker) ListMessages(ctx context.Context, threadID string) ([]core.Message, error) {
	return execute(b, func() ([]core.Message, error) {
		return b.inner.ListMessages(ctx, threadID)
	})
}

// CreateRun implements core.Service.
func (b *Breaker) CreateRun(ctx context.Context, threadID, agentID string) (*core.Run, error) {
	return execute(b, func() (*core.Run, error) {
		return b.inner.CreateRun(ctx, threadID, agentID)
	})
}

// GetRun implements core.Service.
func (b *Breaker) GetRun(ctx context.Context, threadID, runID string) (*core.Run, error) {
	return execute(b, func() (*core.Run, error) {
		return b.inner.GetRun(ctx, threadID, runID)
	})
}

// SubmitToolOutputs implements core.Service.
func (b *Breaker) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []core.ToolOutput) (*core.Run, error) {
	return execute(b, func() (*core.Run, error) {
		return b.inner.SubmitToolOutputs(ctx, threadID, runID, outputs)
	})
}

// execute routes fn through the circuit breaker, translating open-circuit
// sentinels into a wrapped fail-fast error.
func execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("service circuit open: %w", err)
		}

		return zero, err
	}

	return res.(T), nil
}
