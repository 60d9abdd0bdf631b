package transform

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/CodeQwQ/ucflow/internal/logging"
	"github.com/CodeQwQ/ucflow/pkg/activity"
	"github.com/CodeQwQ/ucflow/pkg/usecase"
)

// Engine lowers use cases into activity graphs.
// It holds configuration only and is safe for concurrent use.
type Engine struct {
	mode     Mode
	resume   ResumePolicy
	logger   *slog.Logger
	hooks    Hooks
	validate bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithMode selects Detailed (default) or Overview lowering.
func WithMode(m Mode) Option {
	return func(e *Engine) {
		e.mode = m
	}
}

// WithResumePolicy selects how forward resume targets are handled.
func WithResumePolicy(p ResumePolicy) Option {
	return func(e *Engine) {
		e.resume = p
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(h Hooks) Option {
	return func(e *Engine) {
		e.hooks = h
	}
}

// WithoutValidation skips usecase.Validate before lowering.
func WithoutValidation() Option {
	return func(e *Engine) {
		e.validate = false
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		mode:     Detailed,
		resume:   ResumeStrict,
		logger:   logging.NewNop(),
		validate: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mode reports the lowering mode of the engine.
func (e *Engine) Mode() Mode { return e.mode }

// Transform lowers uc into a new activity graph.
// On failure no partial graph is returned.
func (e *Engine) Transform(uc *usecase.UseCase) (*activity.Graph, error) {
	start := time.Now()
	if e.validate {
		if err := usecase.Validate(uc); err != nil {
			e.complete(uc, nil, start, err)
			return nil, fmt.Errorf("invalid use case: %w", err)
		}
	} else if uc == nil {
		err := fmt.Errorf("invalid use case: %w", usecase.ErrNilUseCase)
		e.complete(uc, nil, start, err)
		return nil, err
	}

	r := newRun(e, uc)
	err := r.lowerUseCase()
	if err != nil {
		e.complete(uc, nil, start, err)
		return nil, err
	}
	e.complete(uc, r.g, start, nil)
	return r.g, nil
}

func (e *Engine) complete(uc *usecase.UseCase, g *activity.Graph, start time.Time, err error) {
	ev := CompleteEvent{Mode: e.mode, Duration: time.Since(start), Err: err}
	if uc != nil {
		ev.UseCase = uc.Name
	}
	if g != nil {
		ev.Nodes = g.NodeCount()
		ev.Edges = g.EdgeCount()
	}

	if err != nil {
		e.logger.Debug("transform failed", "usecase", ev.UseCase, "mode", e.mode.String(), "error", err)
	} else {
		e.logger.Info("transform complete",
			"usecase", ev.UseCase,
			"mode", e.mode.String(),
			"nodes", ev.Nodes,
			"edges", ev.Edges,
			"duration", ev.Duration,
		)
	}

	if e.hooks.OnComplete != nil {
		e.hooks.OnComplete(ev)
	}
}

// Transform lowers uc with a default engine in the given mode.
func Transform(uc *usecase.UseCase, mode Mode) (*activity.Graph, error) {
	return New(WithMode(mode)).Transform(uc)
}
