package graph

import (
	"fmt"
	"strings"

	"github.com/CodeQwQ/ucflow/pkg/export"
)

// GenerateDOT produces a Graphviz DOT representation of an exported activity document.
func GenerateDOT(doc *export.Document) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("digraph %s {\n", quoteDOT(doc.Name)))
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [fontname=\"Helvetica\"];\n")
	sb.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	for _, node := range doc.Nodes {
		sb.WriteString(fmt.Sprintf("  %s [%s];\n", quoteDOT(node.ID), dotAttributes(node)))
	}
	sb.WriteString("\n")

	for _, e := range doc.Edges {
		var attrs []string
		if e.Guard != "" {
			attrs = append(attrs, "label="+quoteDOT("["+e.Guard+"]"))
		}
		if isResumeEdge(e) {
			attrs = append(attrs, "style=dashed")
		}
		line := fmt.Sprintf("  %s -> %s", quoteDOT(e.Source), quoteDOT(e.Target))
		if len(attrs) > 0 {
			line += " [" + strings.Join(attrs, ", ") + "]"
		}
		sb.WriteString(line + ";\n")
	}

	sb.WriteString("}\n")
	return sb.String()
}

func dotAttributes(node export.Node) string {
	label := "label=" + quoteDOT(nodeLabel(node))
	switch node.Kind {
	case "initial":
		return `shape=circle, style=filled, fillcolor=black, label="", width=0.3`
	case "final":
		return `shape=doublecircle, style=filled, fillcolor=black, label="", width=0.2`
	case "flow_final":
		return `shape=circle, label="X", width=0.3, ` + "xlabel=" + quoteDOT(node.Label)
	case "decision", "merge":
		return "shape=diamond, " + label
	case "fork", "join":
		return `shape=box, style=filled, fillcolor=black, label="", height=0.08, width=1.5`
	case "accept_event":
		return "shape=cds, " + label
	case "action":
		if node.Call == "behavior" {
			return "shape=box, style=\"rounded,bold\", peripheries=2, " + label
		}
		return "shape=box, style=rounded, " + label
	default:
		return label
	}
}

func quoteDOT(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
