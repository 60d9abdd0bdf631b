package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CodeQwQ/ucflow/pkg/ports"
	"github.com/CodeQwQ/ucflow/pkg/usecase"
)

// Extensions lists the file extensions the loader reads.
var Extensions = []string{".yaml", ".yml", ".json"}

// Loader implements ports.UseCaseLoader over a directory of YAML/JSON use cases.
// Files are re-read on every call so edits are picked up without a restart.
type Loader struct {
	Dir string
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// Load returns the use case whose name (or, when unnamed, file stem) equals name.
func (l *Loader) Load(ctx context.Context, name string) (*usecase.UseCase, error) {
	index, err := l.index()
	if err != nil {
		return nil, err
	}
	uc, ok := index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrUseCaseNotFound, name)
	}
	return uc, nil
}

// List returns the names of all use cases in the directory.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	index, err := l.index()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (l *Loader) index() (map[string]*usecase.UseCase, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*usecase.UseCase{}, nil
		}
		return nil, fmt.Errorf("failed to read use case directory: %w", err)
	}

	index := make(map[string]*usecase.UseCase)
	paths := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !isUseCaseFile(entry.Name()) {
			continue
		}
		path := filepath.Join(l.Dir, entry.Name())
		uc, err := ReadUseCase(path)
		if err != nil {
			return nil, err
		}

		// Collision Detection
		if existing, ok := paths[uc.Name]; ok {
			return nil, fmt.Errorf("collision detected: use case '%s' is defined in both '%s' and '%s'", uc.Name, existing, path)
		}
		paths[uc.Name] = path
		index[uc.Name] = uc
	}
	return index, nil
}

// ReadUseCase parses a single YAML or JSON file. An unnamed use case takes the file
// stem as its name.
func ReadUseCase(path string) (*usecase.UseCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	uc, err := usecase.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if uc.Name == "" {
		uc.Name = stem(path)
	}
	return uc, nil
}

func isUseCaseFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
