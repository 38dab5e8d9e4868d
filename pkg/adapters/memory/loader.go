package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/aretw0/chatsim/internal/compiler"
	"github.com/aretw0/chatsim/pkg/domain"
)

// Loader implements ports.NodeLoader using an in-memory map.
type Loader struct {
	nodes map[string][]byte
	order []string
}

// NewLoader creates a Loader with the provided raw node definitions.
// Node ids are listed in lexical order.
func NewLoader(data map[string]string) *Loader {
	nodes := make(map[string][]byte, len(data))
	order := make([]string, 0, len(data))
	for k, v := range data {
		nodes[k] = []byte(v)
		order = append(order, k)
	}
	sort.Strings(order)
	return &Loader{nodes: nodes, order: order}
}

// NewFromNodes creates a Loader from domain objects, preserving their order.
// The first node becomes the default entry node.
func NewFromNodes(nodes ...domain.ChatNode) (*Loader, error) {
	l := &Loader{nodes: make(map[string][]byte, len(nodes))}
	for _, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node missing ID")
		}
		if _, dup := l.nodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %q", n.ID)
		}
		raw, err := json.Marshal(n)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal node %s: %w", n.ID, err)
		}
		l.nodes[n.ID] = raw
		l.order = append(l.order, n.ID)
	}
	return l, nil
}

// NewFromFlow parses a flow document (JSON or YAML) into a Loader.
func NewFromFlow(data []byte) (*Loader, error) {
	nodes, err := compiler.NewParser().ParseFlow(data)
	if err != nil {
		return nil, err
	}
	return NewFromNodes(nodes...)
}

// LoadFlowFile reads a single-file flow from disk.
func LoadFlowFile(path string) (*Loader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow file: %w", err)
	}
	l, err := NewFromFlow(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// GetNode retrieves the raw definition of a node by ID.
func (l *Loader) GetNode(id string) ([]byte, error) {
	content, ok := l.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	return content, nil
}

// ListNodes returns all available node IDs.
func (l *Loader) ListNodes() ([]string, error) {
	return append([]string(nil), l.order...), nil
}
