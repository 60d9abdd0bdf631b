package activity

import (
	"fmt"
	"iter"
	"slices"
)

// Graph is an activity diagram under construction.
type Graph struct {
	Name string

	nodes     map[string]*Node
	nodeOrder []*Node
	edges     map[string]*Edge
	edgeOrder []*Edge

	outgoing map[string][]*Edge
	incoming map[string][]*Edge

	preconditions  []Condition
	postconditions []Condition
}

// NodeOption configures a node at creation time.
type NodeOption func(*Node)

// WithBehavior marks an action node as a call to the sub-flow named ref.
func WithBehavior(ref string) NodeOption {
	return func(n *Node) {
		n.Call = CallBehavior
		n.Ref = ref
	}
}

// New creates an empty graph.
func New(name string) *Graph {
	return &Graph{
		Name:     name,
		nodes:    make(map[string]*Node),
		edges:    make(map[string]*Edge),
		outgoing: make(map[string][]*Edge),
		incoming: make(map[string][]*Edge),
	}
}

// CreateNode registers a new node.
func (g *Graph) CreateNode(id string, kind NodeKind, label string, opts ...NodeOption) (*Node, error) {
	if _, exists := g.nodes[id]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateNodeID, id)
	}
	n := &Node{ID: id, Kind: kind, Label: label}
	for _, opt := range opts {
		opt(n)
	}
	g.nodes[id] = n
	g.nodeOrder = append(g.nodeOrder, n)
	return n, nil
}

// CreateEdge registers a control flow from source to target. Both endpoints must
// already exist.
func (g *Graph) CreateEdge(id, source, target, guard string) (*Edge, error) {
	if _, exists := g.edges[id]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateEdgeID, id)
	}
	if _, ok := g.nodes[source]; !ok {
		return nil, fmt.Errorf("edge %q source: %w: %q", id, ErrUnknownNode, source)
	}
	if _, ok := g.nodes[target]; !ok {
		return nil, fmt.Errorf("edge %q target: %w: %q", id, ErrUnknownNode, target)
	}
	e := &Edge{ID: id, Source: source, Target: target, Guard: guard}
	g.edges[id] = e
	g.edgeOrder = append(g.edgeOrder, e)
	g.outgoing[source] = append(g.outgoing[source], e)
	g.incoming[target] = append(g.incoming[target], e)
	return e, nil
}

// AddInputPin appends an input pin to an action node.
func (g *Graph) AddInputPin(nodeID, name, typeHint string) error {
	n, err := g.pinTarget(nodeID)
	if err != nil {
		return err
	}
	n.InputPins = append(n.InputPins, Pin{Name: name, Type: typeHint})
	return nil
}

// AddOutputPin appends an output pin to an action node.
func (g *Graph) AddOutputPin(nodeID, name, typeHint string) error {
	n, err := g.pinTarget(nodeID)
	if err != nil {
		return err
	}
	n.OutputPins = append(n.OutputPins, Pin{Name: name, Type: typeHint})
	return nil
}

func (g *Graph) pinTarget(nodeID string) (*Node, error) {
	n, ok := g.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, nodeID)
	}
	if n.Kind != KindAction {
		return nil, fmt.Errorf("%w: %q is %s", ErrInvalidPinTarget, nodeID, n.Kind)
	}
	return n, nil
}

// AddPrecondition appends a graph-level precondition.
func (g *Graph) AddPrecondition(name, specification string) {
	g.preconditions = append(g.preconditions, Condition{Name: name, Specification: specification})
}

// AddPostcondition appends a graph-level postcondition.
func (g *Graph) AddPostcondition(name, specification string) {
	g.postconditions = append(g.postconditions, Condition{Name: name, Specification: specification})
}

// Preconditions returns the graph-level preconditions in insertion order.
func (g *Graph) Preconditions() []Condition { return slices.Clone(g.preconditions) }

// Postconditions returns the graph-level postconditions in insertion order.
func (g *Graph) Postconditions() []Condition { return slices.Clone(g.postconditions) }

// Node looks up a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge looks up an edge by id.
func (g *Graph) Edge(id string) (*Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// NodeIDs returns every node id in insertion order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.nodeOrder))
	for i, n := range g.nodeOrder {
		ids[i] = n.ID
	}
	return ids
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodeOrder) }

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edgeOrder) }

// Outgoing returns the edges whose source is id, in insertion order.
func (g *Graph) Outgoing(id string) []*Edge { return slices.Clone(g.outgoing[id]) }

// Incoming returns the edges whose target is id, in insertion order.
func (g *Graph) Incoming(id string) []*Edge { return slices.Clone(g.incoming[id]) }

// NodeCount returns the number of registered nodes.
func (g *Graph) NodeCount() int { return len(g.nodeOrder) }

// EdgeCount returns the number of registered edges.
func (g *Graph) EdgeCount() int { return len(g.edgeOrder) }

// Summarize lazily yields one summary per node in insertion order.
func (g *Graph) Summarize() iter.Seq[Summary] {
	return func(yield func(Summary) bool) {
		for _, n := range g.nodeOrder {
			if !yield(Summary{ID: n.ID, Kind: n.Kind, Label: n.Label}) {
				return
			}
		}
	}
}
