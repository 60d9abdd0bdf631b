package activity

import "fmt"

// InsertNodeAfter creates the action node newID right after afterID: every edge that
// leaves afterID is moved to leave newID instead (identity and target unchanged), then
// a single edge afterID -> newID is added.
func (g *Graph) InsertNodeAfter(afterID, newID, label string) (*Node, error) {
	edgeID := insertEdgeID(afterID, newID)
	if err := g.checkInsert(afterID, newID, edgeID); err != nil {
		return nil, err
	}

	// The snapshot must be taken before the connecting edge exists, otherwise that
	// edge would be redirected too and become a self-loop on newID.
	moved := g.Outgoing(afterID)

	n, err := g.CreateNode(newID, KindAction, label)
	if err != nil {
		return nil, err
	}
	g.redirectSources(moved, newID)

	if _, err := g.CreateEdge(edgeID, afterID, newID, ""); err != nil {
		return nil, err
	}
	return n, nil
}

// InsertNodeBefore creates the action node newID right before beforeID: every edge that
// enters beforeID is moved to enter newID instead, then a single edge newID -> beforeID
// is added.
func (g *Graph) InsertNodeBefore(beforeID, newID, label string) (*Node, error) {
	edgeID := insertEdgeID(newID, beforeID)
	if err := g.checkInsert(beforeID, newID, edgeID); err != nil {
		return nil, err
	}

	moved := g.Incoming(beforeID)

	n, err := g.CreateNode(newID, KindAction, label)
	if err != nil {
		return nil, err
	}
	g.redirectTargets(moved, newID)

	if _, err := g.CreateEdge(edgeID, newID, beforeID, ""); err != nil {
		return nil, err
	}
	return n, nil
}

// checkInsert runs every precondition up front so a failed insert leaves the graph
// untouched.
func (g *Graph) checkInsert(anchorID, newID, edgeID string) error {
	if _, ok := g.nodes[anchorID]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, anchorID)
	}
	if _, exists := g.nodes[newID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNodeID, newID)
	}
	if _, exists := g.edges[edgeID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateEdgeID, edgeID)
	}
	return nil
}

func (g *Graph) redirectSources(edges []*Edge, newSource string) {
	for _, e := range edges {
		g.outgoing[e.Source] = removeEdge(g.outgoing[e.Source], e)
		e.Source = newSource
		g.outgoing[newSource] = append(g.outgoing[newSource], e)
	}
}

func (g *Graph) redirectTargets(edges []*Edge, newTarget string) {
	for _, e := range edges {
		g.incoming[e.Target] = removeEdge(g.incoming[e.Target], e)
		e.Target = newTarget
		g.incoming[newTarget] = append(g.incoming[newTarget], e)
	}
}

func removeEdge(list []*Edge, target *Edge) []*Edge {
	out := list[:0]
	for _, e := range list {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}

func insertEdgeID(source, target string) string {
	return fmt.Sprintf("flow_%s_to_%s", source, target)
}
