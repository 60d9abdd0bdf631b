// Package export converts activity graphs into a serializable document.
//
// The document preserves insertion order of nodes, edges and pins, which is the only
// ordering guarantee renderers and stores rely on.
package export

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/CodeQwQ/ucflow/pkg/activity"
)

// Pin is the serialized form of activity.Pin.
type Pin struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Node is the serialized form of activity.Node.
type Node struct {
	ID      string `json:"id" yaml:"id"`
	Kind    string `json:"kind" yaml:"kind"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	Call    string `json:"call,omitempty" yaml:"call,omitempty"`
	Ref     string `json:"ref,omitempty" yaml:"ref,omitempty"`
	Inputs  []Pin  `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs []Pin  `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// Edge is the serialized form of activity.Edge.
type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Guard  string `json:"guard,omitempty" yaml:"guard,omitempty"`
}

// Condition is the serialized form of activity.Condition.
type Condition struct {
	Name          string `json:"name" yaml:"name"`
	Specification string `json:"specification" yaml:"specification"`
}

// Document is an exported activity diagram.
type Document struct {
	Name           string      `json:"name" yaml:"name"`
	Mode           string      `json:"mode,omitempty" yaml:"mode,omitempty"`
	Preconditions  []Condition `json:"preconditions,omitempty" yaml:"preconditions,omitempty"`
	Postconditions []Condition `json:"postconditions,omitempty" yaml:"postconditions,omitempty"`
	Nodes          []Node      `json:"nodes" yaml:"nodes"`
	Edges          []Edge      `json:"edges" yaml:"edges"`
}

// FromGraph snapshots g. mode is recorded as-is.
func FromGraph(g *activity.Graph, mode string) *Document {
	doc := &Document{
		Name:           g.Name,
		Mode:           mode,
		Preconditions:  conditions(g.Preconditions()),
		Postconditions: conditions(g.Postconditions()),
		Nodes:          make([]Node, 0, g.NodeCount()),
		Edges:          make([]Edge, 0, g.EdgeCount()),
	}

	for _, n := range g.Nodes() {
		node := Node{
			ID:      n.ID,
			Kind:    n.Kind.String(),
			Label:   n.Label,
			Inputs:  pins(n.InputPins),
			Outputs: pins(n.OutputPins),
		}
		if n.Kind == activity.KindAction {
			node.Call = n.Call.String()
			node.Ref = n.Ref
		}
		doc.Nodes = append(doc.Nodes, node)
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, Edge{ID: e.ID, Source: e.Source, Target: e.Target, Guard: e.Guard})
	}
	return doc
}

// Graph rebuilds an activity graph from the document.
func (d *Document) Graph() (*activity.Graph, error) {
	g := activity.New(d.Name)
	for _, c := range d.Preconditions {
		g.AddPrecondition(c.Name, c.Specification)
	}
	for _, c := range d.Postconditions {
		g.AddPostcondition(c.Name, c.Specification)
	}

	for _, n := range d.Nodes {
		kind, err := activity.ParseNodeKind(n.Kind)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
		var opts []activity.NodeOption
		if n.Call == activity.CallBehavior.String() {
			opts = append(opts, activity.WithBehavior(n.Ref))
		}
		if _, err := g.CreateNode(n.ID, kind, n.Label, opts...); err != nil {
			return nil, err
		}
		for _, p := range n.Inputs {
			if err := g.AddInputPin(n.ID, p.Name, p.Type); err != nil {
				return nil, err
			}
		}
		for _, p := range n.Outputs {
			if err := g.AddOutputPin(n.ID, p.Name, p.Type); err != nil {
				return nil, err
			}
		}
	}

	for _, e := range d.Edges {
		if _, err := g.CreateEdge(e.ID, e.Source, e.Target, e.Guard); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Node returns the node with the given id.
func (d *Document) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Outgoing returns the edges leaving id in insertion order.
func (d *Document) Outgoing(id string) []Edge {
	var out []Edge
	for _, e := range d.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// MarshalIndent renders the document as indented JSON.
func (d *Document) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

func pins(in []activity.Pin) []Pin {
	if len(in) == 0 {
		return nil
	}
	out := make([]Pin, len(in))
	for i, p := range in {
		out[i] = Pin{Name: p.Name, Type: p.Type}
	}
	return out
}

func conditions(in []activity.Condition) []Condition {
	if len(in) == 0 {
		return nil
	}
	out := make([]Condition, len(in))
	for i, c := range in {
		out[i] = Condition{Name: c.Name, Specification: c.Specification}
	}
	return out
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	c.Preconditions = slices.Clone(d.Preconditions)
	c.Postconditions = slices.Clone(d.Postconditions)
	c.Edges = slices.Clone(d.Edges)
	c.Nodes = slices.Clone(d.Nodes)
	for i := range c.Nodes {
		c.Nodes[i].Inputs = slices.Clone(c.Nodes[i].Inputs)
		c.Nodes[i].Outputs = slices.Clone(c.Nodes[i].Outputs)
	}
	return &c
}
