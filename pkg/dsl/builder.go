package dsl

import (
	"fmt"

	"github.com/aretw0/chatsim/pkg/adapters/memory"
	"github.com/aretw0/chatsim/pkg/domain"
)

// Builder manages the flow construction.
type Builder struct {
	order []string
	nodes map[string]*NodeBuilder
}

// New creates a new flow builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the flow.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{node: domain.ChatNode{ID: id}}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Nodes returns the built nodes in insertion order.
func (b *Builder) Nodes() []domain.ChatNode {
	nodes := make([]domain.ChatNode, 0, len(b.order))
	for _, id := range b.order {
		nodes = append(nodes, b.nodes[id].Build())
	}
	return nodes
}

// Build compiles the flow into a memory loader.
func (b *Builder) Build() (*memory.Loader, error) {
	loader, err := memory.NewFromNodes(b.Nodes()...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}
