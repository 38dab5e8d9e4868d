package ports

import "context"

// NodeLoader defines how the engine retrieves chat node definitions.
// This allows the storage layer (Loam, files, memory, remote flows) to be decoupled.
type NodeLoader interface {
	// GetNode retrieves the raw definition of a node by ID.
	// It returns the raw bytes (JSON or YAML, parsed by the compiler) or an error.
	GetNode(id string) ([]byte, error)

	// ListNodes returns all node IDs available in the flow, in flow order when known.
	// The first entry is used as the entry node unless configured otherwise.
	ListNodes() ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel carrying the id of each node that changed.
	Watch(ctx context.Context) (<-chan string, error)
}
