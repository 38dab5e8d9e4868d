// Package validator crawls a chat flow and reports links that lead nowhere.
package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/chatsim/internal/compiler"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/ports"
)

// BrokenLink is a reference to a node that cannot be loaded.
type BrokenLink struct {
	From string
	To   string
}

// Report is the result of a crawl.
type Report struct {
	Visited     []string
	Broken      []BrokenLink
	Unreachable []string
}

// Err summarizes broken links as an error. Unreachable nodes are not errors.
func (r *Report) Err() error {
	if len(r.Broken) == 0 {
		return nil
	}
	lines := make([]string, 0, len(r.Broken))
	for _, b := range r.Broken {
		if b.From == "" {
			lines = append(lines, fmt.Sprintf("Missing node or load error: '%s'", b.To))
			continue
		}
		lines = append(lines, fmt.Sprintf("Missing node or load error: '%s' (linked from '%s')", b.To, b.From))
	}
	return fmt.Errorf("found %d errors:\n- %s", len(lines), strings.Join(lines, "\n- "))
}

// Crawl walks the flow breadth first from startNodeID through NextNodeId
// links of nodes, buttons and carousel cards. Buttons that fetch a remote
// flow point into that flow and are not followed.
func Crawl(loader ports.NodeLoader, parser *compiler.Parser, startNodeID string) (*Report, error) {
	ids, err := loader.ListNodes()
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	report := &Report{}
	visited := make(map[string]bool)
	type edge struct{ from, to string }
	queue := []edge{{to: startNodeID}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur.to] {
			continue
		}
		visited[cur.to] = true

		raw, err := loader.GetNode(cur.to)
		if err != nil {
			report.Broken = append(report.Broken, BrokenLink{From: cur.from, To: cur.to})
			continue
		}
		node, err := parser.Parse(raw)
		if err != nil {
			report.Broken = append(report.Broken, BrokenLink{From: cur.from, To: cur.to})
			continue
		}
		report.Visited = append(report.Visited, node.ID)

		for _, target := range targets(node) {
			if !visited[target] {
				queue = append(queue, edge{from: node.ID, to: target})
			}
		}
	}

	for _, id := range ids {
		if !visited[id] {
			report.Unreachable = append(report.Unreachable, id)
		}
	}
	slices.Sort(report.Unreachable)
	return report, nil
}

// ValidateGraph checks for broken links starting from startNodeID.
func ValidateGraph(loader ports.NodeLoader, parser *compiler.Parser, startNodeID string) error {
	report, err := Crawl(loader, parser, startNodeID)
	if err != nil {
		return err
	}
	return report.Err()
}

func targets(n *domain.ChatNode) []string {
	var out []string
	if n.NextNodeID != "" {
		out = append(out, n.NextNodeID)
	}
	for _, b := range n.Buttons {
		if b.NextNodeID != "" && b.ButtonType != domain.ButtonFetchChatFlow {
			out = append(out, b.NextNodeID)
		}
	}
	for _, b := range n.CarouselButtons() {
		if b.NextNodeID != "" {
			out = append(out, b.NextNodeID)
		}
	}
	return out
}
