package compiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/chatsim/pkg/domain"
	"gopkg.in/yaml.v3"
)

// ErrMissingID is returned for nodes without an Id.
var ErrMissingID = errors.New("node missing ID")

// Parser is responsible for converting raw bytes into chat nodes.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a single node. JSON is tried first, then YAML.
func (p *Parser) Parse(data []byte) (*domain.ChatNode, error) {
	var node domain.ChatNode
	if err := unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse node: %w", err)
	}
	if node.ID == "" {
		return nil, ErrMissingID
	}
	stampOwners(&node)
	return &node, nil
}

type flowDocument struct {
	Nodes []domain.ChatNode `json:"nodes" yaml:"nodes"`
}

// ParseFlow decodes a whole flow: either a list of nodes or an object with a
// "nodes" list, in JSON or YAML. Node order is preserved.
func (p *Parser) ParseFlow(data []byte) ([]domain.ChatNode, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty flow")
	}

	var nodes []domain.ChatNode
	if err := unmarshal(trimmed, &nodes); err != nil {
		var doc flowDocument
		if docErr := unmarshal(trimmed, &doc); docErr != nil {
			return nil, fmt.Errorf("failed to parse flow: %w", err)
		}
		nodes = doc.Nodes
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("flow has no nodes")
	}

	seen := make(map[string]bool, len(nodes))
	for i := range nodes {
		if nodes[i].ID == "" {
			return nil, fmt.Errorf("node #%d: %w", i, ErrMissingID)
		}
		if seen[nodes[i].ID] {
			return nil, fmt.Errorf("duplicate node id %q", nodes[i].ID)
		}
		seen[nodes[i].ID] = true
		stampOwners(&nodes[i])
	}
	return nodes, nil
}

func unmarshal(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return json.Unmarshal(trimmed, v)
	}
	return yaml.Unmarshal(trimmed, v)
}

// stampOwners fills NodeId on buttons that leave it out.
func stampOwners(n *domain.ChatNode) {
	for i := range n.Buttons {
		if n.Buttons[i].NodeID == "" {
			n.Buttons[i].NodeID = n.ID
		}
	}
	for si := range n.Sections {
		for ii := range n.Sections[si].Items {
			item := &n.Sections[si].Items[ii]
			for bi := range item.Buttons {
				if item.Buttons[bi].NodeID == "" {
					item.Buttons[bi].NodeID = n.ID
				}
			}
		}
	}
}
