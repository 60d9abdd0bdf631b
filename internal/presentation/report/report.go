// Package report renders a transformed activity document as a markdown explanation.
package report

import (
	"fmt"
	"strings"

	"github.com/CodeQwQ/ucflow/pkg/export"
)

var kindOrder = []string{
	"initial", "action", "decision", "merge", "fork", "join",
	"accept_event", "flow_final", "final",
}

// Markdown explains doc: counts per node kind, the node and edge tables and the
// pre/postconditions.
func Markdown(doc *export.Document) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", doc.Name)
	if doc.Mode != "" {
		fmt.Fprintf(&sb, "Mode: **%s** · %d nodes · %d edges\n\n", doc.Mode, len(doc.Nodes), len(doc.Edges))
	} else {
		fmt.Fprintf(&sb, "%d nodes · %d edges\n\n", len(doc.Nodes), len(doc.Edges))
	}

	counts := make(map[string]int)
	for _, n := range doc.Nodes {
		counts[n.Kind]++
	}
	sb.WriteString("## Summary\n\n| Kind | Count |\n|---|---|\n")
	for _, kind := range kindOrder {
		if counts[kind] > 0 {
			fmt.Fprintf(&sb, "| %s | %d |\n", kind, counts[kind])
		}
	}
	sb.WriteString("\n")

	writeConditions(&sb, "Preconditions", doc.Preconditions)
	writeConditions(&sb, "Postconditions", doc.Postconditions)

	sb.WriteString("## Nodes\n\n| ID | Kind | Label | Details |\n|---|---|---|---|\n")
	for _, n := range doc.Nodes {
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n", n.ID, n.Kind, cell(n.Label), cell(details(n)))
	}
	sb.WriteString("\n")

	sb.WriteString("## Edges\n\n| ID | From | To | Guard |\n|---|---|---|---|\n")
	for _, e := range doc.Edges {
		fmt.Fprintf(&sb, "| `%s` | `%s` | `%s` | %s |\n", e.ID, e.Source, e.Target, cell(e.Guard))
	}

	return sb.String()
}

func writeConditions(sb *strings.Builder, title string, conds []export.Condition) {
	if len(conds) == 0 {
		return
	}
	fmt.Fprintf(sb, "## %s\n\n", title)
	for _, c := range conds {
		fmt.Fprintf(sb, "- **%s**: %s\n", c.Name, c.Specification)
	}
	sb.WriteString("\n")
}

func details(n export.Node) string {
	var parts []string
	if n.Call == "behavior" {
		parts = append(parts, "calls "+n.Ref)
	}
	if len(n.Inputs) > 0 {
		parts = append(parts, "in: "+pinList(n.Inputs))
	}
	if len(n.Outputs) > 0 {
		parts = append(parts, "out: "+pinList(n.Outputs))
	}
	return strings.Join(parts, "; ")
}

func pinList(pins []export.Pin) string {
	names := make([]string, len(pins))
	for i, p := range pins {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

// cell escapes table separators.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
