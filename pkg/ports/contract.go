package ports

import (
	"context"
	"testing"
	"time"

	"github.com/CodeQwQ/ucflow/pkg/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractDocument(name string) *export.Document {
	return &export.Document{
		Name:          name,
		Mode:          "detailed",
		Preconditions: []export.Condition{{Name: "Precondition_0", Specification: "ready"}},
		Nodes: []export.Node{
			{ID: "start_" + name, Kind: "initial", Label: "Start"},
			{ID: "action_s1", Kind: "action", Label: "Step", Call: "operation", Outputs: []export.Pin{{Name: "output", Type: "Order"}}},
			{ID: "end_" + name, Kind: "final", Label: "End"},
		},
		Edges: []export.Edge{
			{ID: "flow_1", Source: "start_" + name, Target: "action_s1"},
			{ID: "flow_to_end", Source: "action_s1", Target: "end_" + name, Guard: "done"},
		},
	}
}

// RunResultStoreContract runs a suite of tests to verify that a ResultStore implementation
// adheres to the defined interface contract.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	ctx := context.Background()
	id := "contract-test-result-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		doc := contractDocument("Checkout")

		require.NoError(t, store.Save(ctx, id, doc), "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, doc, loaded)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		doc := contractDocument("Isolated")
		require.NoError(t, store.Save(ctx, id, doc))
		doc.Nodes[0].Label = "mutated after save"

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Start", loaded.Nodes[0].Label)

		loaded.Edges[0].Guard = "mutated after load"
		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, again.Edges[0].Guard)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, ErrResultNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, contractDocument("Doomed")))

		require.NoError(t, store.Delete(ctx, id), "Delete should not return error")

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, ErrResultNotFound, "Load after Delete should return ErrResultNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Delete of a missing id is a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		require.NoError(t, store.Save(ctx, id1, contractDocument("A")))
		require.NoError(t, store.Save(ctx, id2, contractDocument("B")))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// RunUseCaseLoaderContract verifies a UseCaseLoader against the names it was seeded
// with. Every seeded use case must load, validate and keep its name.
func RunUseCaseLoaderContract(t *testing.T, loader UseCaseLoader, seeded []string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load", func(t *testing.T) {
		for _, name := range seeded {
			uc, err := loader.Load(ctx, name)
			require.NoError(t, err, "loading %s", name)
			assert.Equal(t, name, uc.Name)
			assert.NotEmpty(t, uc.MainFlow, "%s has no main flow", name)
		}
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := loader.Load(ctx, "non-existent-use-case")
		assert.ErrorIs(t, err, ErrUseCaseNotFound)
	})

	t.Run("List", func(t *testing.T) {
		names, err := loader.List(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, seeded, names)
		assert.IsNonDecreasing(t, names)
	})
}
