package chatsim

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/chatsim/pkg/domain"
)

// MaxAutoHops bounds how many button-less nodes are followed through NextNodeId in one entry.
const MaxAutoHops = 32

// ErrHopLimit is returned when NextNodeId links of button-less nodes form a loop.
var ErrHopLimit = errors.New("automatic hop limit exceeded")

// enter moves the session to nodeID, rendering the node's sections as bot
// messages. Nodes without buttons are passed through via their NextNodeId;
// a node with neither buttons nor a next node terminates the session.
func (e *Engine) enter(ctx context.Context, s *domain.State, nodeID string) error {
	for hops := 0; ; hops++ {
		if hops >= MaxAutoHops {
			return fmt.Errorf("%w: entering %s", ErrHopLimit, nodeID)
		}

		node, err := e.resolve(ctx, s.FlowURL, nodeID)
		if err != nil {
			return err
		}

		from := s.CurrentNodeID
		if len(s.History) == 0 {
			from = ""
		}
		s.CurrentNodeID = node.ID
		s.History = append(s.History, node.ID)

		if err := e.render(ctx, s, node); err != nil {
			return err
		}
		if e.hooks.OnNavigate != nil {
			e.hooks.OnNavigate(ctx, &domain.NavigationEvent{
				Timestamp: e.now(),
				SessionID: s.SessionID,
				From:      from,
				To:        node.ID,
			})
		}
		e.logger.Debug("Entered node", "session_id", s.SessionID, "node_id", node.ID, "from", from)

		if len(node.Buttons) > 0 || len(node.CarouselButtons()) > 0 {
			s.Status = domain.StatusActive
			return nil
		}
		if node.NextNodeID == "" {
			s.Status = domain.StatusTerminated
			return nil
		}
		nodeID = node.NextNodeID
	}
}

// render appends the node's sections to the transcript.
func (e *Engine) render(ctx context.Context, s *domain.State, node *domain.ChatNode) error {
	for _, sec := range node.Sections {
		entry := domain.TranscriptEntry{
			Direction: domain.DirectionBot,
			NodeID:    node.ID,
			At:        e.now().UTC(),
		}

		switch sec.SectionType {
		case domain.SectionText:
			if strings.TrimSpace(sec.Text) == "" {
				continue
			}
			entry.Kind = domain.EntryText
			entry.Text = sec.Text
		case domain.SectionImage, domain.SectionGif:
			media(&entry, sec, domain.MediaImage)
		case domain.SectionVideo:
			media(&entry, sec, domain.MediaVideo)
		case domain.SectionAudio:
			media(&entry, sec, domain.MediaAudio)
		case domain.SectionFile:
			media(&entry, sec, domain.MediaFile)
		case domain.SectionCarousel:
			s.Transcript = append(s.Transcript, e.cards(node.ID, sec)...)
			continue
		case domain.SectionPrintOTP:
			otp, err := e.otp.CurrentOTP(ctx)
			if err != nil {
				return fmt.Errorf("failed to read OTP for node %s: %w", node.ID, err)
			}
			entry.Kind = domain.EntryText
			entry.Text = otp
		default:
			e.logger.Debug("Skipping unknown section", "node_id", node.ID, "section_type", sec.SectionType)
			continue
		}
		s.Transcript = append(s.Transcript, entry)
	}
	return nil
}

func media(entry *domain.TranscriptEntry, sec domain.Section, kind domain.MediaKind) {
	entry.Kind = domain.EntryMedia
	entry.MediaKind = kind
	entry.MediaURL = sec.URL
	entry.Text = sec.Title
	entry.Caption = sec.Caption
}

func (e *Engine) cards(nodeID string, sec domain.Section) []domain.TranscriptEntry {
	out := make([]domain.TranscriptEntry, 0, len(sec.Items))
	for _, item := range sec.Items {
		entry := domain.TranscriptEntry{
			Direction: domain.DirectionBot,
			Kind:      domain.EntryText,
			Text:      item.Title,
			Caption:   item.Caption,
			NodeID:    nodeID,
			At:        e.now().UTC(),
		}
		if item.ImageURL != "" {
			entry.Kind = domain.EntryMedia
			entry.MediaKind = domain.MediaImage
			entry.MediaURL = item.ImageURL
		}
		out = append(out, entry)
	}
	return out
}
