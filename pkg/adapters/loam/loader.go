package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CodeQwQ/ucflow/pkg/ports"
	"github.com/CodeQwQ/ucflow/pkg/usecase"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam repository to ports.UseCaseLoader.
// Each document holds one use case: the frontmatter carries the flows and the
// markdown body is the description.
type Loader struct {
	Repo *loam.TypedRepository[usecase.Document]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[usecase.Document]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only, strict Loam repository at dir and wraps it.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[usecase.Document](repo)), nil
}

// Load returns the use case named name. The document id is tried first, then
// every document's declared name.
func (l *Loader) Load(ctx context.Context, name string) (*usecase.UseCase, error) {
	if doc, err := l.Repo.Get(ctx, name); err == nil {
		uc, err := toUseCase(doc.ID, doc.Data, doc.Content)
		if err != nil {
			return nil, err
		}
		if uc.Name == name {
			return uc, nil
		}
	}

	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}
	for _, doc := range docs {
		if docName(doc.ID, doc.Data) != name {
			continue
		}
		return toUseCase(doc.ID, doc.Data, doc.Content)
	}
	return nil, fmt.Errorf("%w: %s", ports.ErrUseCaseNotFound, name)
}

// List lists all use case names in the repository.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		name := docName(doc.ID, doc.Data)

		// Collision Detection
		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: use case '%s' is defined in both '%s' and '%s'", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Watch implements ports.Watchable. It emits the id of every changed document.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func toUseCase(id string, meta usecase.Document, content string) (*usecase.UseCase, error) {
	uc, err := meta.UseCase()
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	uc.Name = docName(id, meta)
	if uc.Description == "" {
		uc.Description = strings.TrimSpace(content)
	}
	return uc, nil
}

func docName(id string, meta usecase.Document) string {
	if meta.Name != "" {
		return meta.Name
	}
	return trimExtension(id)
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
