package ucflow

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/CodeQwQ/ucflow/pkg/activity"
	loamAdapter "github.com/CodeQwQ/ucflow/pkg/adapters/loam"
	"github.com/CodeQwQ/ucflow/pkg/export"
	"github.com/CodeQwQ/ucflow/pkg/ports"
	"github.com/CodeQwQ/ucflow/pkg/transform"
	"github.com/CodeQwQ/ucflow/pkg/usecase"
)

// Version is the release of this module.
//
//go:embed VERSION
var Version string

// Engine is the high-level entry point for the ucflow library.
// It pairs a use case loader with a transform engine.
type Engine struct {
	transformer   *transform.Engine
	loader        ports.UseCaseLoader
	transformOpts []transform.Option
	hooks         transform.Hooks
	logger        *slog.Logger
	Name          string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom UseCaseLoader, bypassing the default Loam initialization.
func WithLoader(l ports.UseCaseLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMode selects Detailed (default) or Overview lowering.
func WithMode(m transform.Mode) Option {
	return func(e *Engine) {
		e.transformOpts = append(e.transformOpts, transform.WithMode(m))
	}
}

// WithResumePolicy selects how forward resume targets are handled.
func WithResumePolicy(p transform.ResumePolicy) Option {
	return func(e *Engine) {
		e.transformOpts = append(e.transformOpts, transform.WithResumePolicy(p))
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks transform.Hooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// New initializes a new ucflow Engine.
// By default, it reads use cases from a Loam repository at dir.
// If WithLoader option is provided, dir can be empty and Loam is skipped.
func New(dir string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if dir == "" {
			return nil, fmt.Errorf("dir is required when no custom loader is provided")
		}
		absPath, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)

		loader, err := loamAdapter.Open(absPath)
		if err != nil {
			return nil, err
		}
		eng.loader = loader
	} else if dir != "" {
		eng.Name = filepath.Base(dir)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("project", eng.Name)
	}

	eng.transformer = transform.New(slices.Concat(eng.transformOpts, []transform.Option{
		transform.WithLogger(eng.logger),
		transform.WithHooks(eng.hooks),
	})...)
	return eng, nil
}

// Result is one transformed use case.
type Result struct {
	UseCase  *usecase.UseCase
	Graph    *activity.Graph
	Document *export.Document
}

// Transform loads the named use case and transforms it.
func (e *Engine) Transform(ctx context.Context, name string) (*Result, error) {
	uc, err := e.loader.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.TransformUseCase(uc)
}

// TransformUseCase transforms an already loaded use case.
func (e *Engine) TransformUseCase(uc *usecase.UseCase) (*Result, error) {
	g, err := e.transformer.Transform(uc)
	if err != nil {
		return nil, err
	}
	return &Result{
		UseCase:  uc,
		Graph:    g,
		Document: export.FromGraph(g, e.transformer.Mode().String()),
	}, nil
}

// List returns the names of the use cases the loader knows.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.loader.List(ctx)
}

// Mode reports the lowering mode in use.
func (e *Engine) Mode() transform.Mode {
	return e.transformer.Mode()
}

// Watch returns a channel that signals when a use case changes.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the underlying UseCaseLoader used by the engine.
func (e *Engine) Loader() ports.UseCaseLoader {
	return e.loader
}
