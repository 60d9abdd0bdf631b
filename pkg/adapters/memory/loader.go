package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/CodeQwQ/ucflow/pkg/ports"
	"github.com/CodeQwQ/ucflow/pkg/usecase"
)

// Loader implements ports.UseCaseLoader using an in-memory map.
// Returned use cases are shared; callers must not mutate them.
type Loader struct {
	mu       sync.RWMutex
	useCases map[string]*usecase.UseCase
}

// NewLoader creates a Loader from raw YAML or JSON sources keyed by any label.
func NewLoader(sources map[string]string) (*Loader, error) {
	l := &Loader{useCases: make(map[string]*usecase.UseCase)}
	for key, src := range sources {
		uc, err := usecase.Parse([]byte(src))
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", key, err)
		}
		if err := l.Add(uc); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// NewFromUseCases creates a Loader from already built use cases.
func NewFromUseCases(useCases ...*usecase.UseCase) (*Loader, error) {
	l := &Loader{useCases: make(map[string]*usecase.UseCase)}
	for _, uc := range useCases {
		if err := l.Add(uc); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Add registers uc under its name.
func (l *Loader) Add(uc *usecase.UseCase) error {
	if uc == nil || uc.Name == "" {
		return fmt.Errorf("use case missing name")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.useCases[uc.Name]; exists {
		return fmt.Errorf("use case %q registered twice", uc.Name)
	}
	l.useCases[uc.Name] = uc
	return nil
}

// Load returns the named use case.
func (l *Loader) Load(ctx context.Context, name string) (*usecase.UseCase, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	uc, ok := l.useCases[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrUseCaseNotFound, name)
	}
	return uc, nil
}

// List returns all registered names.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.useCases))
	for name := range l.useCases {
		names = append(names, name)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}
