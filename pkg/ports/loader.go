package ports

import (
	"context"

	"github.com/CodeQwQ/ucflow/pkg/usecase"
)

// UseCaseLoader defines how use cases are retrieved by name.
// This allows the storage layer (Loam, FS, Memory) to be decoupled.
type UseCaseLoader interface {
	// Load returns the named use case.
	// Returns ErrUseCaseNotFound if it does not exist.
	Load(ctx context.Context, name string) (*usecase.UseCase, error)

	// List returns the names of all available use cases, sorted.
	List(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel that receives the name of each changed use case.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
