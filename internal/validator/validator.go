package validator

import (
	"fmt"
	"strings"

	"github.com/CodeQwQ/ucflow/pkg/export"
)

// Issue is a single finding on a node or edge.
type Issue struct {
	ID      string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("'%s': %s", i.ID, i.Message)
}

// Report collects the findings of Validate. Errors make a document unusable;
// warnings point at diagram shapes that are legal but usually unintended.
type Report struct {
	Errors   []Issue
	Warnings []Issue
}

// OK reports whether no errors were found.
func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// Err returns the errors as a single error, or nil.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	lines := make([]string, len(r.Errors))
	for i, issue := range r.Errors {
		lines[i] = issue.String()
	}
	return fmt.Errorf("found %d errors:\n- %s", len(r.Errors), strings.Join(lines, "\n- "))
}

// Unreachable returns the ids flagged as unreachable, for overlay rendering.
func (r Report) Unreachable() []string {
	var ids []string
	for _, w := range r.Warnings {
		if w.Message == msgUnreachable {
			ids = append(ids, w.ID)
		}
	}
	return ids
}

func (r *Report) errorf(id, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{ID: id, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warnf(id, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{ID: id, Message: fmt.Sprintf(format, args...)})
}

const msgUnreachable = "unreachable from any entry node"

// Validate checks doc for broken links, missing terminals and unreachable nodes.
func Validate(doc *export.Document) Report {
	var report Report
	if doc == nil {
		report.errorf("", "document is nil")
		return report
	}

	nodes := make(map[string]export.Node, len(doc.Nodes))
	var hasInitial, hasFinal bool
	for _, n := range doc.Nodes {
		if _, dup := nodes[n.ID]; dup {
			report.errorf(n.ID, "duplicate node id")
			continue
		}
		nodes[n.ID] = n
		switch n.Kind {
		case "initial":
			hasInitial = true
		case "final":
			hasFinal = true
		}
	}
	if !hasInitial {
		report.errorf(doc.Name, "missing initial node")
	}
	if !hasFinal {
		report.errorf(doc.Name, "missing final node")
	}

	out := make(map[string][]string)
	in := make(map[string]int)
	edgeIDs := make(map[string]bool, len(doc.Edges))
	for _, e := range doc.Edges {
		if edgeIDs[e.ID] {
			report.errorf(e.ID, "duplicate edge id")
		}
		edgeIDs[e.ID] = true

		_, okSrc := nodes[e.Source]
		_, okDst := nodes[e.Target]
		if !okSrc {
			report.errorf(e.ID, "missing source node '%s'", e.Source)
		}
		if !okDst {
			report.errorf(e.ID, "missing target node '%s'", e.Target)
		}
		if okSrc && okDst {
			out[e.Source] = append(out[e.Source], e.Target)
			in[e.Target]++
		}
	}

	// Crawler from every entry node.
	visited := make(map[string]bool)
	var queue []string
	for _, n := range doc.Nodes {
		if n.Kind == "initial" || n.Kind == "accept_event" {
			queue = append(queue, n.ID)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, next := range out[current] {
			if !visited[next] {
				queue = append(queue, next)
			}
		}
	}

	seen := make(map[string]bool)
	for _, n := range doc.Nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true

		if !visited[n.ID] {
			report.warnf(n.ID, msgUnreachable)
		}
		switch n.Kind {
		case "decision":
			if len(out[n.ID]) < 2 {
				report.warnf(n.ID, "decision has %d outgoing edges", len(out[n.ID]))
			}
		case "fork":
			joinID := "join_" + strings.TrimPrefix(n.ID, "fork_")
			if _, ok := nodes[joinID]; !ok {
				report.warnf(n.ID, "fork has no matching join '%s'", joinID)
				continue
			}
			if len(out[n.ID]) != in[joinID] {
				report.warnf(n.ID, "fork out-degree %d differs from join '%s' in-degree %d", len(out[n.ID]), joinID, in[joinID])
			}
		}
	}

	return report
}
