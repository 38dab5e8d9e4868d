package loam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam repository of node documents to ports.NodeLoader.
// Each document (Markdown with frontmatter, JSON or YAML) holds one chat node.
type Loader struct {
	Repo *loam.TypedRepository[NodeMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[NodeMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only, strict Loam repository at path.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	// Strict mode keeps numbers as json.Number across adapters; read-only
	// stops Loam from creating its dev sandbox.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[NodeMetadata](repo)), nil
}

// GetNode loads a node document and returns it as ChatNode JSON.
func (l *Loader) GetNode(id string) ([]byte, error) {
	ctx := context.Background()

	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	node := toChatNode(doc.ID, doc.Data, doc.Content)
	raw, err := json.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal node %s: %w", id, err)
	}
	return raw, nil
}

func toChatNode(docID string, meta NodeMetadata, content string) domain.ChatNode {
	rawID := meta.ID
	if rawID == "" {
		rawID = docID
	}

	node := domain.ChatNode{
		ID:         trimExtension(rawID),
		Name:       meta.Name,
		Buttons:    meta.Buttons,
		NextNodeID: meta.NextNodeID,
	}
	if body := strings.TrimSpace(content); body != "" {
		node.Sections = append(node.Sections, domain.Section{SectionType: domain.SectionText, Text: body})
	}
	node.Sections = append(node.Sections, meta.Sections...)
	return node
}

// ListNodes lists all nodes in the repository with extensions stripped.
// Two documents resolving to the same id are reported as a collision.
func (l *Loader) ListNodes() ([]string, error) {
	ctx := context.Background()
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	return ids, nil
}

func trimExtension(id string) string {
	return filepath.ToSlash(strings.TrimSuffix(id, filepath.Ext(id)))
}

// Watch implements ports.Watchable. It emits the id of every changed document.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
