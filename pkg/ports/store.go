package ports

import (
	"context"

	"github.com/CodeQwQ/ucflow/pkg/export"
)

// ResultStore defines the interface for persisting transformation results.
type ResultStore interface {
	// Save persists the document under id, replacing any previous value.
	Save(ctx context.Context, id string, doc *export.Document) error

	// Load retrieves the document stored under id.
	// Returns ErrResultNotFound if it does not exist.
	Load(ctx context.Context, id string) (*export.Document, error)

	// Delete removes the document. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of all stored documents.
	List(ctx context.Context) ([]string, error)
}
