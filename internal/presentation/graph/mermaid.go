package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/chatsim/pkg/domain"
)

// GraphOverlay contains session data to highlight on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// GenerateMermaid produces a Mermaid flowchart of a chat flow.
// Node shapes:
//   - entry node: ((circle))
//   - node asking for typed input: [/parallelogram/]
//   - node with a carousel: {{hexagon}}
//   - sink node: ([stadium])
//   - default: [rectangle]
//
// Automatic NextNodeId hops are plain arrows, buttons are labelled arrows and
// carousel cards are dotted. Remote flow fetches point at an external node.
func GenerateMermaid(nodes []domain.ChatNode, entryNode string, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	remote := 0
	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID)
		opener, closer := shape(&node, entryNode)

		label := node.ID
		if node.Name != "" && node.Name != node.ID {
			label = node.Name + " <br/> " + node.ID
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escape(label), closer)

		if node.NextNodeID != "" {
			fmt.Fprintf(&sb, "    %s --> %s\n", safeID, sanitizeMermaidID(node.NextNodeID))
		}
		for _, b := range node.Buttons {
			text := escape(b.Label())
			if text == "" {
				text = string(b.ButtonType)
			}
			if b.ButtonType == domain.ButtonFetchChatFlow {
				remote++
				extID := fmt.Sprintf("remote_%d", remote)
				fmt.Fprintf(&sb, "    %s>\"%s\"]\n", extID, escape(b.URL))
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, text, extID)
				continue
			}
			if b.NextNodeID == "" {
				continue
			}
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, text, sanitizeMermaidID(b.NextNodeID))
		}
		for _, c := range node.CarouselButtons() {
			if c.NextNodeID == "" {
				continue
			}
			fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", safeID, escape(c.Text), sanitizeMermaidID(c.NextNodeID))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func shape(node *domain.ChatNode, entryNode string) (string, string) {
	switch {
	case node.ID == entryNode:
		return "((", "))"
	case node.HasSection(domain.SectionCarousel):
		return "{{", "}}"
	case len(node.Buttons) == 0 && node.NextNodeID == "":
		return "([", "])"
	}
	for _, b := range node.Buttons {
		if b.ButtonType.RequiresInput() {
			return "[/", "/]"
		}
	}
	return "[", "]"
}

func escape(s string) string {
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
