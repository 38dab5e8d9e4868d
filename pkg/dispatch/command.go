package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// Deps are the collaborators a Command acts upon.
// Navigator, Variables and Transcript are bound to the session being served.
type Deps struct {
	Navigator  ports.Navigator
	Variables  ports.VariableStore
	Transcript ports.Transcript
	Flows      ports.FlowFetcher
	Platform   ports.Platform
	Prompter   ports.Prompter
	OTP        ports.OTPSource

	// Nodes resolves the node owning a button, used to detect PrintOTP sections.
	Nodes ports.NodeResolver
}

// Command dispatches button activations to their actions.
type Command struct {
	deps       Deps
	actions    map[domain.ButtonType]Action
	logger     *slog.Logger
	hooks      domain.DispatchHooks
	mapsAPIKey string
	loc        *time.Location
	sessionID  string
}

// New creates a Command with the built-in action registry.
func New(deps Deps, opts ...Option) *Command {
	c := &Command{
		deps:   deps,
		logger: defaultLogger(),
		loc:    time.Local,
	}
	c.actions = c.builtinActions()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CanExecute always reports true. Parameters that are not buttons are ignored by Execute.
func (c *Command) CanExecute(any) bool {
	return true
}

// Execute performs the action of a button-like parameter and then navigates to
// its next node. Supported parameters are domain.Button, domain.CarouselButton,
// pointers to either, and map[string]any decoded by field name.
//
// Validation failures and cancelled dialogs return a Result with OutcomeAborted and
// a nil error. Collaborator failures are returned as errors.
func (c *Command) Execute(ctx context.Context, param any) (*Result, error) {
	start := time.Now()

	var (
		res *Result
		err error
	)
	switch p := param.(type) {
	case domain.Button:
		res, err = c.executeButton(ctx, p)
	case *domain.Button:
		if p != nil {
			res, err = c.executeButton(ctx, *p)
		}
	case domain.CarouselButton:
		res, err = c.executeCard(ctx, p)
	case *domain.CarouselButton:
		if p != nil {
			res, err = c.executeCard(ctx, *p)
		}
	case map[string]any:
		res, err = c.executeMap(ctx, p)
	}
	switch {
	case res == nil && err != nil:
		res = &Result{Outcome: domain.OutcomeFailed}
	case res == nil:
		c.logger.Debug("Ignoring non-button parameter", "type", fmt.Sprintf("%T", param))
		res = &Result{Outcome: domain.OutcomeIgnored}
	}

	c.emit(ctx, res, err, start)
	return res, err
}

func (c *Command) executeMap(ctx context.Context, m map[string]any) (*Result, error) {
	switch {
	case m["ButtonType"] != nil:
		var b domain.Button
		if err := decode(m, &b); err != nil {
			return nil, fmt.Errorf("failed to decode button: %w", err)
		}
		return c.executeButton(ctx, b)
	case m["Type"] != nil:
		var cb domain.CarouselButton
		if err := decode(m, &cb); err != nil {
			return nil, fmt.Errorf("failed to decode carousel button: %w", err)
		}
		return c.executeCard(ctx, cb)
	}
	return nil, nil
}

func decode(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func (c *Command) executeButton(ctx context.Context, b domain.Button) (*Result, error) {
	res := &Result{
		ButtonID:   b.ID,
		NodeID:     b.NodeID,
		ButtonType: string(b.ButtonType),
		UserData:   make(map[string]string),
	}

	if err := c.applyOTP(ctx, &b); err != nil {
		res.Outcome = domain.OutcomeFailed
		return res, err
	}
	if strings.TrimSpace(b.ButtonText) == "" {
		b.ButtonText = b.ButtonName
	}

	action, ok := c.actions[b.ButtonType]
	if !ok {
		action = ActionFunc(unsupported)
	}

	inv := &Invocation{Button: b, UserData: res.UserData, deps: &c.deps}
	c.logger.Debug("Dispatching button", "button_id", b.ID, "type", b.ButtonType, "node_id", b.NodeID)

	step, err := action.Perform(ctx, inv)
	if err != nil {
		res.Outcome = domain.OutcomeFailed
		return res, fmt.Errorf("button %s (%s): %w", b.ID, b.ButtonType, err)
	}
	switch step {
	case Abort:
		res.Outcome = domain.OutcomeAborted
		return res, nil
	case Handled:
		res.Outcome = domain.OutcomeCompleted
		return res, nil
	}

	return c.navigate(ctx, res, b.NextNodeID)
}

func (c *Command) executeCard(ctx context.Context, cb domain.CarouselButton) (*Result, error) {
	res := &Result{
		ButtonID:   cb.ID,
		NodeID:     cb.NodeID,
		ButtonType: "Card" + string(cb.Type),
		UserData:   make(map[string]string),
	}
	inv := &Invocation{
		Button: domain.Button{
			ID:            cb.ID,
			NodeID:        cb.NodeID,
			ButtonText:    cb.Text,
			URL:           cb.URL,
			VariableName:  cb.VariableName,
			VariableValue: cb.VariableValue,
			NextNodeID:    cb.NextNodeID,
		},
		UserData: res.UserData,
		deps:     &c.deps,
	}

	var err error
	switch cb.Type {
	case domain.CardNextNode:
		if strings.TrimSpace(cb.VariableName) != "" {
			err = inv.Save(ctx, cb.VariableName, cb.VariableValue)
		}
	case domain.CardDeepLink:
		err = inv.deepLink(ctx, cb.URL)
	case domain.CardOpenURL:
		err = inv.openURL(ctx, cb.URL)
	default:
		err = inv.Notify(ctx, msgUnsupported(cb.Type))
	}
	if err != nil {
		res.Outcome = domain.OutcomeFailed
		return res, fmt.Errorf("card button %s (%s): %w", cb.ID, cb.Type, err)
	}

	return c.navigate(ctx, res, cb.NextNodeID)
}

// applyOTP overwrites the button value with the current OTP when its node prints one.
func (c *Command) applyOTP(ctx context.Context, b *domain.Button) error {
	if c.deps.Nodes == nil || b.NodeID == "" {
		return nil
	}
	node, err := c.deps.Nodes.ResolveNode(ctx, b.NodeID)
	if errors.Is(err, domain.ErrNodeNotFound) {
		c.logger.Debug("Owning node not found, skipping OTP check", "node_id", b.NodeID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to resolve node %s: %w", b.NodeID, err)
	}
	if !node.HasSection(domain.SectionPrintOTP) {
		return nil
	}
	if c.deps.OTP == nil {
		return fmt.Errorf("node %s prints an OTP: %w", b.NodeID, errMissing("OTP source"))
	}
	otp, err := c.deps.OTP.CurrentOTP(ctx)
	if err != nil {
		return fmt.Errorf("failed to read OTP: %w", err)
	}
	b.VariableValue = otp
	return nil
}

func (c *Command) navigate(ctx context.Context, res *Result, nextNodeID string) (*Result, error) {
	res.Outcome = domain.OutcomeCompleted
	if nextNodeID == "" {
		return res, nil
	}
	if c.deps.Navigator == nil {
		res.Outcome = domain.OutcomeFailed
		return res, errMissing("navigator")
	}
	if err := c.deps.Navigator.NavigateToNode(ctx, nextNodeID); err != nil {
		res.Outcome = domain.OutcomeFailed
		return res, fmt.Errorf("failed to navigate to %s: %w", nextNodeID, err)
	}
	res.NextNodeID = nextNodeID
	return res, nil
}

func (c *Command) emit(ctx context.Context, res *Result, err error, start time.Time) {
	if res.Outcome == domain.OutcomeFailed {
		c.logger.Error("Button dispatch failed", "type", res.ButtonType, "err", err)
	}
	if c.hooks.OnDispatch == nil {
		return
	}
	c.hooks.OnDispatch(ctx, &domain.DispatchEvent{
		Timestamp:  start,
		SessionID:  c.sessionID,
		NodeID:     res.NodeID,
		ButtonID:   res.ButtonID,
		ButtonType: res.ButtonType,
		NextNodeID: res.NextNodeID,
		Outcome:    res.Outcome,
		Duration:   time.Since(start),
		Err:        err,
	})
}
