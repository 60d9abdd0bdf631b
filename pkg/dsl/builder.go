package dsl

import (
	"fmt"

	"github.com/CodeQwQ/ucflow/pkg/adapters/memory"
	"github.com/CodeQwQ/ucflow/pkg/usecase"
)

// Builder manages the use case construction.
type Builder struct {
	uc usecase.UseCase
}

// New creates a new use case builder.
func New(name string) *Builder {
	return &Builder{uc: usecase.UseCase{Name: name}}
}

// Describe sets the description.
func (b *Builder) Describe(description string) *Builder {
	b.uc.Description = description
	return b
}

// Pre appends preconditions.
func (b *Builder) Pre(conditions ...string) *Builder {
	b.uc.Preconditions = append(b.uc.Preconditions, conditions...)
	return b
}

// Post appends postconditions.
func (b *Builder) Post(conditions ...string) *Builder {
	b.uc.Postconditions = append(b.uc.Postconditions, conditions...)
	return b
}

// Main appends to the main flow.
func (b *Builder) Main(fn func(f *Flow)) *Builder {
	b.uc.MainFlow = append(b.uc.MainFlow, collect(fn)...)
	return b
}

// On adds a global alternative flow triggered by event.
func (b *Builder) On(event string, fn func(f *Flow)) *Builder {
	b.uc.GlobalAlternativeFlows = append(b.uc.GlobalAlternativeFlows, usecase.GlobalAlternativeFlow{
		TriggerEvent: event,
		Sentences:    collect(fn),
	})
	return b
}

// Build validates and returns the use case.
func (b *Builder) Build() (*usecase.UseCase, error) {
	uc := b.uc
	if err := usecase.Validate(&uc); err != nil {
		return nil, fmt.Errorf("failed to build use case %q: %w", uc.Name, err)
	}
	return &uc, nil
}

// MustBuild is like Build but panics on error. Intended for tests and examples.
func (b *Builder) MustBuild() *usecase.UseCase {
	uc, err := b.Build()
	if err != nil {
		panic(err)
	}
	return uc
}

// Loader builds every use case and serves them from a memory loader.
func Loader(builders ...*Builder) (*memory.Loader, error) {
	useCases := make([]*usecase.UseCase, 0, len(builders))
	for _, b := range builders {
		uc, err := b.Build()
		if err != nil {
			return nil, err
		}
		useCases = append(useCases, uc)
	}

	loader, err := memory.NewFromUseCases(useCases...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}
