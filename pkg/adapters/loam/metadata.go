package loam

import (
	"github.com/aretw0/chatsim/pkg/domain"
)

// NodeMetadata is the frontmatter (or JSON body) of a chat node document.
// Keys follow the flow export format (Id, Buttons, Sections, NextNodeId).
// The Markdown body, when present, becomes a leading Text section.
type NodeMetadata struct {
	ID         string           `json:"Id" mapstructure:"Id"`
	Name       string           `json:"Name" mapstructure:"Name"`
	Sections   []domain.Section `json:"Sections" mapstructure:"Sections"`
	Buttons    []domain.Button  `json:"Buttons" mapstructure:"Buttons"`
	NextNodeID string           `json:"NextNodeId" mapstructure:"NextNodeId"`
}
