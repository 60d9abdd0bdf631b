package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/CodeQwQ/ucflow/pkg/adapters/memory"
	"github.com/CodeQwQ/ucflow/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uploadYAML = `
name: FileUpload
main_flow:
  - kind: simple
    id: s1
    content: User selects a file
  - kind: conditional
    id: c1
    condition: file too large
    then:
      - kind: abort
        id: a1
        content: Reject upload
    else:
      - kind: simple
        id: s2
        content: Upload file
`

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	loader, err := memory.NewLoader(map[string]string{"upload.yaml": uploadYAML})
	require.NoError(t, err)
	return NewServer(store, WithLoader(loader), WithVersion("test")), store
}

func TestHandleTransform(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleTransform(ctx, mcp.CallToolRequest{}, TransformArgs{UseCase: uploadYAML, Mode: "overview"})
	require.NoError(t, err)
	assert.Equal(t, "overview", resp.Document.Mode)
	assert.Contains(t, resp.Mermaid, "then_behavior_c1")
	require.NotEmpty(t, resp.ID)

	stored, err := store.Load(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Document, stored)

	byName, err := s.handleTransform(ctx, mcp.CallToolRequest{}, TransformArgs{Name: "FileUpload"})
	require.NoError(t, err)
	assert.Equal(t, "detailed", byName.Document.Mode)
	_, ok := byName.Document.Node("abort_a1")
	assert.True(t, ok)
}

func TestHandleTransform_Errors(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleTransform(ctx, mcp.CallToolRequest{}, TransformArgs{})
	assert.ErrorContains(t, err, "required")

	_, err = s.handleTransform(ctx, mcp.CallToolRequest{}, TransformArgs{UseCase: uploadYAML, Mode: "sketch"})
	assert.Error(t, err)

	_, err = s.handleTransform(ctx, mcp.CallToolRequest{}, TransformArgs{Name: "Missing"})
	assert.ErrorIs(t, err, ports.ErrUseCaseNotFound)
}

func TestHandleValidate(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleValidate(ctx, mcp.CallToolRequest{}, ValidateArgs{UseCase: uploadYAML})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Errors)

	resp, err = s.handleValidate(ctx, mcp.CallToolRequest{}, ValidateArgs{UseCase: `
name: Broken
main_flow:
  - {kind: simple, id: s1}
  - {kind: simple, id: s1}
  - {kind: resume_step, id: r1, target: ghost}
`})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Len(t, resp.Errors, 2)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestResults(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	out, err := s.handleTransform(ctx, mcp.CallToolRequest{}, TransformArgs{Name: "FileUpload"})
	require.NoError(t, err)

	contents, err := s.readResults(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	var ids []string
	require.NoError(t, json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &ids))
	assert.Equal(t, []string{out.ID}, ids)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = resultURIPrefix + out.ID
	contents, err = s.readResult(ctx, req)
	require.NoError(t, err)
	assert.Contains(t, contents[0].(mcp.TextResourceContents).Text, `"name": "FileUpload"`)

	req.Params.URI = resultURIPrefix + "ghost"
	_, err = s.readResult(ctx, req)
	assert.ErrorIs(t, err, ports.ErrResultNotFound)
}
