package chatsim

import (
	"context"
	"fmt"

	"github.com/aretw0/chatsim/pkg/adapters/memory"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/ports"
)

// loaderFor returns the graph a session runs on: the base flow, or the flow a
// FetchChatFlow button downloaded from flowURL.
func (e *Engine) loaderFor(ctx context.Context, flowURL string) (ports.NodeLoader, error) {
	if flowURL == "" {
		return e.base, nil
	}

	e.mu.RLock()
	l, ok := e.flows[flowURL]
	e.mu.RUnlock()
	if ok {
		return l, nil
	}

	// Sessions restored from a shared store may reference a flow this process never fetched.
	nodes, err := e.installFlow(ctx, flowURL)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Restored remote flow", "url", flowURL, "nodes", len(nodes))
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.flows[flowURL], nil
}

// installFlow downloads a flow and swaps it in for flowURL.
func (e *Engine) installFlow(ctx context.Context, flowURL string) ([]domain.ChatNode, error) {
	nodes, err := e.remote.Fetch(ctx, flowURL)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyFlow, flowURL)
	}
	loader, err := memory.NewFromNodes(nodes...)
	if err != nil {
		return nil, fmt.Errorf("invalid flow at %s: %w", flowURL, err)
	}

	e.mu.Lock()
	e.flows[flowURL] = loader
	e.mu.Unlock()
	return nodes, nil
}

func (e *Engine) resolve(ctx context.Context, flowURL, nodeID string) (*domain.ChatNode, error) {
	l, err := e.loaderFor(ctx, flowURL)
	if err != nil {
		return nil, err
	}
	return e.parse(l, nodeID)
}

func (e *Engine) parse(l ports.NodeLoader, nodeID string) (*domain.ChatNode, error) {
	raw, err := l.GetNode(nodeID)
	if err != nil {
		return nil, err
	}
	node, err := e.parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", nodeID, err)
	}
	return node, nil
}
