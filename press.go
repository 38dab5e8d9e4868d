package chatsim

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/chatsim/pkg/dispatch"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/ports"
	"github.com/aretw0/chatsim/pkg/prompt"
)

// PressRequest activates a button on the session's current node.
type PressRequest struct {
	// Button is the button id, or its name or text (case-insensitive).
	Button string `json:"button"`

	// Value is the typed input of input buttons and the picked URL of media buttons.
	Value string `json:"value,omitempty"`

	// Address answers the address dialog. Nil dismisses it.
	Address *domain.Address `json:"address,omitempty"`

	// At answers date and time pickers. Nil cancels them.
	At *time.Time `json:"at,omitempty"`

	// Prompter, when set, handles every dialog of this press interactively.
	Prompter ports.Prompter `json:"-"`
}

// PressResult reports the outcome of a press.
type PressResult struct {
	Dispatch *dispatch.Result  `json:"dispatch"`
	State    *domain.State     `json:"state"`
	Node     *domain.ChatNode  `json:"node,omitempty"`
	Notices  []string          `json:"notices,omitempty"`
	Diff     *domain.StateDiff `json:"diff,omitempty"`
}

// Press runs the action of a chat button on the current node and persists the result.
// Presses on the same session are serialized.
func (e *Engine) Press(ctx context.Context, sessionID string, req PressRequest) (*PressResult, error) {
	return e.press(ctx, sessionID, req, func(node *domain.ChatNode) (any, error) {
		b, ok := node.FindButton(req.Button)
		if !ok {
			return nil, fmt.Errorf("%w: %q on node %s", domain.ErrButtonNotFound, req.Button, node.ID)
		}
		btn := *b
		if btn.NodeID == "" {
			btn.NodeID = node.ID
		}
		if req.Value != "" && btn.ButtonType.RequiresInput() {
			btn.VariableValue = req.Value
		}
		return btn, nil
	})
}

// PressCard runs the action of a carousel card button on the current node.
func (e *Engine) PressCard(ctx context.Context, sessionID string, req PressRequest) (*PressResult, error) {
	return e.press(ctx, sessionID, req, func(node *domain.ChatNode) (any, error) {
		cb, ok := node.FindCarouselButton(req.Button)
		if !ok {
			return nil, fmt.Errorf("%w: card %q on node %s", domain.ErrButtonNotFound, req.Button, node.ID)
		}
		card := *cb
		if card.NodeID == "" {
			card.NodeID = node.ID
		}
		return card, nil
	})
}

func (e *Engine) press(ctx context.Context, sessionID string, req PressRequest, pick func(*domain.ChatNode) (any, error)) (*PressResult, error) {
	var out *PressResult
	_, err := e.sessions.Update(ctx, sessionID, func(ctx context.Context, s *domain.State) error {
		if s.Terminated() {
			return fmt.Errorf("%w: %s", domain.ErrSessionTerminated, sessionID)
		}
		node, err := e.resolve(ctx, s.FlowURL, s.CurrentNodeID)
		if err != nil {
			return err
		}
		param, err := pick(node)
		if err != nil {
			return err
		}

		before := s.Snapshot()
		host := &sessionHost{e: e, state: s}
		cmd := dispatch.New(dispatch.Deps{
			Navigator:  host,
			Variables:  host,
			Transcript: host,
			Flows:      host,
			Platform:   pressPlatform{Platform: e.platform, media: req.Value},
			Prompter:   recordingPrompter{Prompter: e.prompterFor(req), host: host},
			OTP:        e.otp,
			Nodes:      host,
		}, e.commandOptions(sessionID)...)

		res, err := cmd.Execute(ctx, param)
		if err != nil {
			return err
		}

		out = &PressResult{
			Dispatch: res,
			State:    s.Snapshot(),
			Notices:  host.notices,
			Diff:     domain.Diff(before, s),
		}
		if current, err := e.resolve(ctx, s.FlowURL, s.CurrentNodeID); err == nil {
			out.Node = current
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// prompterFor picks who answers the dialogs of a press. Answers carried by the
// request win over the engine-wide prompter.
func (e *Engine) prompterFor(req PressRequest) ports.Prompter {
	switch {
	case req.Prompter != nil:
		return req.Prompter
	case req.Address == nil && req.At == nil && e.prompter != nil:
		return e.prompter
	}
	sp := prompt.NewScripted()
	if req.Address != nil {
		sp.QueueAddress(*req.Address)
	}
	if req.At != nil {
		sp.QueuePick(*req.At)
	}
	return sp
}

func (e *Engine) commandOptions(sessionID string) []dispatch.Option {
	opts := []dispatch.Option{
		dispatch.WithLogger(e.logger),
		dispatch.WithHooks(e.hooks),
		dispatch.WithMapsAPIKey(e.mapsAPIKey),
		dispatch.WithTimeLocation(e.loc),
		dispatch.WithSessionID(sessionID),
	}
	for t, a := range e.actions {
		opts = append(opts, dispatch.WithAction(t, a))
	}
	return opts
}
