package activity

import "fmt"

// NodeKind is the diagram element a node renders as.
type NodeKind int

const (
	KindInitial NodeKind = iota
	KindFinal
	KindFlowFinal
	KindAction
	KindDecision
	KindMerge
	KindFork
	KindJoin
	KindAcceptEvent
)

var kindNames = [...]string{
	KindInitial:     "initial",
	KindFinal:       "final",
	KindFlowFinal:   "flow_final",
	KindAction:      "action",
	KindDecision:    "decision",
	KindMerge:       "merge",
	KindFork:        "fork",
	KindJoin:        "join",
	KindAcceptEvent: "accept_event",
}

func (k NodeKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// ParseNodeKind is the inverse of NodeKind.String.
func ParseNodeKind(s string) (NodeKind, error) {
	for i, name := range kindNames {
		if name == s {
			return NodeKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// CallKind distinguishes the two action flavours.
type CallKind int

const (
	// CallOperation is a plain step of the described flow.
	CallOperation CallKind = iota
	// CallBehavior invokes a sub-flow rendered elsewhere (included use case, collapsed branch).
	CallBehavior
)

func (c CallKind) String() string {
	if c == CallBehavior {
		return "behavior"
	}
	return "operation"
}

// Pin is a named data slot on an action node.
type Pin struct {
	Name string
	Type string
}

// Node is a registered graph node. Callers must treat it as read-only; use the Graph
// methods to change it.
type Node struct {
	ID    string
	Kind  NodeKind
	Label string

	// Call and Ref are only meaningful on action nodes. Ref names the sub-flow a
	// CallBehavior action stands for.
	Call CallKind
	Ref  string

	InputPins  []Pin
	OutputPins []Pin
}

// Edge is a directed control flow between two registered nodes.
type Edge struct {
	ID     string
	Source string
	Target string
	// Guard is empty for unguarded flows.
	Guard string
}

// Condition is a named graph-level constraint (precondition or postcondition).
type Condition struct {
	Name          string
	Specification string
}

// Summary is a read-only view of one node used for diagnostics.
type Summary struct {
	ID    string
	Kind  NodeKind
	Label string
}
