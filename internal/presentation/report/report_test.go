package report

import (
	"testing"

	"github.com/CodeQwQ/ucflow/pkg/export"
	"github.com/stretchr/testify/assert"
)

func TestMarkdown(t *testing.T) {
	doc := &export.Document{
		Name: "UserLogin",
		Mode: "overview",
		Preconditions: []export.Condition{
			{Name: "Precondition_1", Specification: "user is registered"},
		},
		Nodes: []export.Node{
			{ID: "start_UserLogin", Kind: "initial", Label: "Start"},
			{ID: "action_s1", Kind: "action", Label: "User enters a|b", Call: "operation",
				Outputs: []export.Pin{{Name: "credentials"}}},
			{ID: "alt_behavior_c1", Kind: "action", Label: "Alternative Flow", Call: "behavior", Ref: "c1/alternative"},
			{ID: "end_UserLogin", Kind: "final", Label: "End"},
		},
		Edges: []export.Edge{
			{ID: "flow_0", Source: "start_UserLogin", Target: "action_s1"},
			{ID: "flow_1", Source: "action_s1", Target: "alt_behavior_c1", Guard: "invalid"},
		},
	}

	md := Markdown(doc)

	assert.Contains(t, md, "# UserLogin\n")
	assert.Contains(t, md, "Mode: **overview** · 4 nodes · 2 edges")
	assert.Contains(t, md, "| action | 2 |")
	assert.Contains(t, md, "| initial | 1 |")
	assert.NotContains(t, md, "| decision |")
	assert.Contains(t, md, "- **Precondition_1**: user is registered")
	assert.NotContains(t, md, "## Postconditions")
	assert.Contains(t, md, "| `action_s1` | action | User enters a\\|b | out: credentials |")
	assert.Contains(t, md, "calls c1/alternative")
	assert.Contains(t, md, "| `flow_1` | `action_s1` | `alt_behavior_c1` | invalid |")
}
