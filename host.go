package chatsim

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/ports"
)

// sessionHost binds the button command to one session for the duration of a press.
// It implements the Navigator, VariableStore, Transcript, FlowFetcher and NodeResolver ports.
type sessionHost struct {
	e     *Engine
	state *domain.State

	notices []string
}

func (h *sessionHost) NavigateToNode(ctx context.Context, nodeID string) error {
	return h.e.enter(ctx, h.state, nodeID)
}

func (h *sessionHost) SaveVariable(ctx context.Context, name, value string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("variable name is empty")
	}
	if h.state.Variables == nil {
		h.state.Variables = make(map[string]string)
	}
	h.state.Variables[name] = value
	return ctx.Err()
}

func (h *sessionHost) PostText(ctx context.Context, text string) error {
	h.state.Transcript = append(h.state.Transcript, domain.TranscriptEntry{
		Direction: domain.DirectionUser,
		Kind:      domain.EntryText,
		Text:      text,
		NodeID:    h.state.CurrentNodeID,
		At:        h.e.now().UTC(),
	})
	return ctx.Err()
}

func (h *sessionHost) PostMedia(ctx context.Context, url string, kind domain.MediaKind, caption string) error {
	h.state.Transcript = append(h.state.Transcript, domain.TranscriptEntry{
		Direction: domain.DirectionUser,
		Kind:      domain.EntryMedia,
		MediaURL:  url,
		MediaKind: kind,
		Caption:   caption,
		NodeID:    h.state.CurrentNodeID,
		At:        h.e.now().UTC(),
	})
	return ctx.Err()
}

// FetchChatFlow downloads the flow at url, switches the session onto it and
// enters its first node.
func (h *sessionHost) FetchChatFlow(ctx context.Context, url string) error {
	nodes, err := h.e.installFlow(ctx, url)
	if err != nil {
		return err
	}
	h.state.FlowURL = url
	h.e.logger.Info("Switched session to remote flow", "session_id", h.state.SessionID, "url", url, "nodes", len(nodes))
	if err := h.e.enter(ctx, h.state, nodes[0].ID); err != nil {
		return fmt.Errorf("failed to enter remote flow: %w", err)
	}
	return nil
}

func (h *sessionHost) ResolveNode(ctx context.Context, id string) (*domain.ChatNode, error) {
	return h.e.resolve(ctx, h.state.FlowURL, id)
}

// notice records a dialog message as a system entry.
func (h *sessionHost) notice(msg string) {
	h.notices = append(h.notices, msg)
	h.state.Transcript = append(h.state.Transcript, domain.TranscriptEntry{
		Direction: domain.DirectionSystem,
		Kind:      domain.EntryText,
		Text:      msg,
		NodeID:    h.state.CurrentNodeID,
		At:        h.e.now().UTC(),
	})
}

// recordingPrompter copies every notice into the transcript before showing it.
type recordingPrompter struct {
	ports.Prompter
	host *sessionHost
}

func (p recordingPrompter) Notify(ctx context.Context, msg string) error {
	p.host.notice(msg)
	return p.Prompter.Notify(ctx, msg)
}

// pressPlatform answers media picks with the value supplied by the press.
type pressPlatform struct {
	ports.Platform
	media string
}

func (p pressPlatform) PickMedia(ctx context.Context, varName string, kind domain.MediaKind) (string, error) {
	if p.media != "" {
		return p.media, ctx.Err()
	}
	return p.Platform.PickMedia(ctx, varName, kind)
}
