package activity_test

import (
	"testing"

	"github.com/CodeQwQ/ucflow/pkg/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNode(t *testing.T, g *activity.Graph, id string, kind activity.NodeKind) {
	t.Helper()
	_, err := g.CreateNode(id, kind, id)
	require.NoError(t, err)
}

func mustEdge(t *testing.T, g *activity.Graph, id, source, target string) {
	t.Helper()
	_, err := g.CreateEdge(id, source, target, "")
	require.NoError(t, err)
}

func TestGraph_CreateNode(t *testing.T) {
	g := activity.New("test")

	n, err := g.CreateNode("a", activity.KindAction, "Do A")
	require.NoError(t, err)
	assert.Equal(t, "a", n.ID)
	assert.Equal(t, activity.KindAction, n.Kind)
	assert.Equal(t, activity.CallOperation, n.Call)

	_, err = g.CreateNode("a", activity.KindDecision, "")
	assert.ErrorIs(t, err, activity.ErrDuplicateNodeID)
	assert.Equal(t, 1, g.NodeCount(), "failed create must not register a node")

	sub, err := g.CreateNode("inc", activity.KindAction, "Include: Pay", activity.WithBehavior("Pay"))
	require.NoError(t, err)
	assert.Equal(t, activity.CallBehavior, sub.Call)
	assert.Equal(t, "Pay", sub.Ref)

	got, ok := g.Node("inc")
	require.True(t, ok)
	assert.Same(t, sub, got)

	_, ok = g.Node("missing")
	assert.False(t, ok)
}

func TestGraph_CreateEdge(t *testing.T) {
	g := activity.New("test")
	mustNode(t, g, "a", activity.KindInitial)
	mustNode(t, g, "b", activity.KindAction)

	e, err := g.CreateEdge("e1", "a", "b", "go")
	require.NoError(t, err)
	assert.Equal(t, "go", e.Guard)
	assert.Equal(t, []*activity.Edge{e}, g.Outgoing("a"))
	assert.Equal(t, []*activity.Edge{e}, g.Incoming("b"))

	tests := []struct {
		name   string
		id     string
		source string
		target string
		want   error
	}{
		{"duplicate id", "e1", "a", "b", activity.ErrDuplicateEdgeID},
		{"unknown source", "e2", "ghost", "b", activity.ErrUnknownNode},
		{"unknown target", "e3", "a", "ghost", activity.ErrUnknownNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.CreateEdge(tt.id, tt.source, tt.target, "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 1, g.EdgeCount())
}

func TestGraph_Pins(t *testing.T) {
	g := activity.New("test")
	mustNode(t, g, "act", activity.KindAction)
	mustNode(t, g, "dec", activity.KindDecision)

	require.NoError(t, g.AddInputPin("act", "input", "Order"))
	require.NoError(t, g.AddOutputPin("act", "output", "Order"))

	n, _ := g.Node("act")
	assert.Equal(t, []activity.Pin{{Name: "input", Type: "Order"}}, n.InputPins)
	assert.Equal(t, []activity.Pin{{Name: "output", Type: "Order"}}, n.OutputPins)

	assert.ErrorIs(t, g.AddInputPin("dec", "x", "Boolean"), activity.ErrInvalidPinTarget)
	assert.ErrorIs(t, g.AddOutputPin("dec", "x", "Boolean"), activity.ErrInvalidPinTarget)
	assert.ErrorIs(t, g.AddInputPin("ghost", "x", "Boolean"), activity.ErrUnknownNode)
}

func TestGraph_Conditions(t *testing.T) {
	g := activity.New("test")
	g.AddPrecondition("Precondition_0", "system is up")
	g.AddPrecondition("Precondition_1", "user logged out")
	g.AddPostcondition("Postcondition_2", "user logged in")

	assert.Equal(t, []activity.Condition{
		{Name: "Precondition_0", Specification: "system is up"},
		{Name: "Precondition_1", Specification: "user logged out"},
	}, g.Preconditions())
	assert.Len(t, g.Postconditions(), 1)
}

func TestGraph_InsertNodeAfter(t *testing.T) {
	g := activity.New("test")
	mustNode(t, g, "w", activity.KindInitial)
	mustNode(t, g, "x1", activity.KindAction)
	mustNode(t, g, "y", activity.KindAction)
	mustNode(t, g, "z", activity.KindAction)
	mustEdge(t, g, "in", "w", "x1")
	mustEdge(t, g, "to_y", "x1", "y")
	mustEdge(t, g, "to_z", "x1", "z")

	n, err := g.InsertNodeAfter("x1", "new", "audit")
	require.NoError(t, err)
	assert.Equal(t, activity.KindAction, n.Kind)
	assert.Equal(t, "audit", n.Label)

	toY, _ := g.Edge("to_y")
	toZ, _ := g.Edge("to_z")
	assert.Equal(t, "new", toY.Source)
	assert.Equal(t, "y", toY.Target)
	assert.Equal(t, "new", toZ.Source)
	assert.Equal(t, "z", toZ.Target)

	out := g.Outgoing("x1")
	require.Len(t, out, 1)
	assert.Equal(t, "new", out[0].Target)

	assert.Len(t, g.Outgoing("new"), 2)
	assert.Len(t, g.Incoming("new"), 1)
	for _, e := range g.Edges() {
		assert.False(t, e.Source == "new" && e.Target == "new", "self-loop on inserted node: %s", e.ID)
	}

	in, _ := g.Edge("in")
	assert.Equal(t, "x1", in.Target, "incoming edges of the anchor are untouched")
	assert.Equal(t, 4, g.EdgeCount())
}

func TestGraph_InsertNodeBefore(t *testing.T) {
	g := activity.New("test")
	mustNode(t, g, "a", activity.KindAction)
	mustNode(t, g, "b", activity.KindAction)
	mustNode(t, g, "target", activity.KindAction)
	mustNode(t, g, "after", activity.KindFinal)
	mustEdge(t, g, "from_a", "a", "target")
	mustEdge(t, g, "from_b", "b", "target")
	mustEdge(t, g, "out", "target", "after")

	_, err := g.InsertNodeBefore("target", "gate", "check gate")
	require.NoError(t, err)

	fromA, _ := g.Edge("from_a")
	fromB, _ := g.Edge("from_b")
	assert.Equal(t, "gate", fromA.Target)
	assert.Equal(t, "gate", fromB.Target)
	assert.Equal(t, "a", fromA.Source)

	in := g.Incoming("target")
	require.Len(t, in, 1)
	assert.Equal(t, "gate", in[0].Source)
	assert.Len(t, g.Incoming("gate"), 2)
	for _, e := range g.Edges() {
		assert.NotEqual(t, e.Source, e.Target, "self-loop: %s", e.ID)
	}
}

func TestGraph_InsertFailuresLeaveGraphUntouched(t *testing.T) {
	g := activity.New("test")
	mustNode(t, g, "a", activity.KindAction)
	mustNode(t, g, "b", activity.KindAction)
	mustEdge(t, g, "ab", "a", "b")

	_, err := g.InsertNodeAfter("ghost", "n", "")
	assert.ErrorIs(t, err, activity.ErrUnknownNode)

	_, err = g.InsertNodeAfter("a", "b", "")
	assert.ErrorIs(t, err, activity.ErrDuplicateNodeID)

	_, err = g.InsertNodeBefore("b", "a", "")
	assert.ErrorIs(t, err, activity.ErrDuplicateNodeID)

	ab, _ := g.Edge("ab")
	assert.Equal(t, "a", ab.Source)
	assert.Equal(t, "b", ab.Target)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
}

func TestGraph_Summarize(t *testing.T) {
	g := activity.New("test")
	mustNode(t, g, "start", activity.KindInitial)
	mustNode(t, g, "act", activity.KindAction)
	mustNode(t, g, "end", activity.KindFinal)

	var kinds []activity.NodeKind
	for s := range g.Summarize() {
		kinds = append(kinds, s.Kind)
		if s.ID == "act" {
			break
		}
	}
	assert.Equal(t, []activity.NodeKind{activity.KindInitial, activity.KindAction}, kinds)
	assert.Equal(t, []string{"start", "act", "end"}, g.NodeIDs())
}

func TestNodeKind_String(t *testing.T) {
	for _, k := range []activity.NodeKind{
		activity.KindInitial, activity.KindFinal, activity.KindFlowFinal, activity.KindAction,
		activity.KindDecision, activity.KindMerge, activity.KindFork, activity.KindJoin, activity.KindAcceptEvent,
	} {
		parsed, err := activity.ParseNodeKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := activity.ParseNodeKind("swimlane")
	assert.Error(t, err)
}
