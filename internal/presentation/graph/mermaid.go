package graph

import (
	"fmt"
	"strings"

	"github.com/CodeQwQ/ucflow/pkg/export"
)

// GraphOverlay contains extra state to visualize on the graph.
type GraphOverlay struct {
	// Flagged nodes are styled as warnings (e.g. unreachable nodes).
	Flagged []string
	// Focus is styled as the current selection.
	Focus string
}

// GenerateMermaid produces a Mermaid flowchart from an exported activity document.
// It applies activity-diagram styling:
// - Initial: ((Circle)), Final: (((Double circle))), FlowFinal: {{Hexagon}}
// - Action: (Rounded), call-behavior action: [[Subroutine]]
// - Decision/Merge: {Rhombus}
// - Fork: [/Trapezoid\], Join: [\Inverted trapezoid/]
// - AcceptEvent: >Asymmetric]
// Guarded edges carry their guard as label; resume edges are dotted.
func GenerateMermaid(doc *export.Document, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range doc.Nodes {
		safeID := sanitizeMermaidID(node.ID)
		opener, closer := mermaidShape(node)
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeMermaid(nodeLabel(node)), closer))
	}

	for _, e := range doc.Edges {
		arrow := "-->"
		dotted := isResumeEdge(e)
		if dotted {
			arrow = "-.->"
		}
		if e.Guard != "" {
			guard := escapeMermaid(e.Guard)
			arrow = fmt.Sprintf("-- \"%s\" -->", guard)
			if dotted {
				arrow = fmt.Sprintf("-. \"%s\" .->", guard)
			}
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(e.Source), arrow, sanitizeMermaidID(e.Target)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on both light and dark themes.
		sb.WriteString("    classDef flagged fill:#fff3e0,stroke:#e65100,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef focus fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Flagged {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s flagged;\n", safeID))
			}
		}
		if overlay.Focus != "" {
			sb.WriteString(fmt.Sprintf("    class %s focus;\n", sanitizeMermaidID(overlay.Focus)))
		}
	}

	return sb.String()
}

func mermaidShape(node export.Node) (string, string) {
	switch node.Kind {
	case "initial":
		return "((", "))"
	case "final":
		return "(((", ")))"
	case "flow_final":
		return "{{", "}}"
	case "decision", "merge":
		return "{", "}"
	case "fork":
		return "[/", "\\]"
	case "join":
		return "[\\", "/]"
	case "accept_event":
		return ">", "]"
	case "action":
		if node.Call == "behavior" {
			return "[[", "]]"
		}
		return "(", ")"
	default:
		return "[", "]"
	}
}

func nodeLabel(node export.Node) string {
	if node.Label != "" {
		return node.Label
	}
	return node.ID
}

func isResumeEdge(e export.Edge) bool {
	return strings.HasPrefix(e.ID, "flow_resume_")
}

func escapeMermaid(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
