package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/chatsim/pkg/domain"
)

// ErrMissingCollaborator is returned when a button needs a collaborator the Command was built without.
var ErrMissingCollaborator = errors.New("collaborator not configured")

func errMissing(name string) error {
	return fmt.Errorf("%s: %w", name, ErrMissingCollaborator)
}

// Step tells the Command whether to go on to navigation.
type Step int

const (
	// Continue proceeds to navigation.
	Continue Step = iota
	// Abort ends the call without navigating.
	Abort
	// Handled completes the call without navigating; the action already moved the session.
	Handled
)

// Action performs the side effects of one button type.
type Action interface {
	Perform(ctx context.Context, inv *Invocation) (Step, error)
}

// ActionFunc adapts a function to the Action interface.
type ActionFunc func(ctx context.Context, inv *Invocation) (Step, error)

// Perform calls f.
func (f ActionFunc) Perform(ctx context.Context, inv *Invocation) (Step, error) {
	return f(ctx, inv)
}

// Invocation is the per-call view an Action works with.
type Invocation struct {
	// Button is a private copy; actions may rewrite its value.
	Button domain.Button

	// UserData collects every variable saved during the call.
	UserData map[string]string

	deps *Deps
}

// Save stores a variable and records it in UserData.
func (inv *Invocation) Save(ctx context.Context, name, value string) error {
	if err := inv.store(ctx, name, value); err != nil {
		return err
	}
	inv.UserData[name] = value
	return nil
}

// store writes a variable without recording it in UserData.
func (inv *Invocation) store(ctx context.Context, name, value string) error {
	if inv.deps.Variables == nil {
		return errMissing("variable store")
	}
	if err := inv.deps.Variables.SaveVariable(ctx, name, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}

// Post appends text to the transcript.
func (inv *Invocation) Post(ctx context.Context, text string) error {
	if inv.deps.Transcript == nil {
		return errMissing("transcript")
	}
	return inv.deps.Transcript.PostText(ctx, text)
}

// PostIfVisible posts text when the button is visible and flagged for chat posting.
func (inv *Invocation) PostIfVisible(ctx context.Context, text string) error {
	if !inv.Button.ShouldPost() {
		return nil
	}
	return inv.Post(ctx, text)
}

// PostInput echoes a captured value wrapped in the button's prefix and postfix.
func (inv *Invocation) PostInput(ctx context.Context, value string) error {
	return inv.PostIfVisible(ctx, inv.Button.PrefixText+value+inv.Button.PostfixText)
}

// PostMedia appends a media message to the transcript.
func (inv *Invocation) PostMedia(ctx context.Context, url string, kind domain.MediaKind, caption string) error {
	if inv.deps.Transcript == nil {
		return errMissing("transcript")
	}
	return inv.deps.Transcript.PostMedia(ctx, url, kind, caption)
}

// Notify shows a message dialog and waits for it to be dismissed.
func (inv *Invocation) Notify(ctx context.Context, msg string) error {
	if inv.deps.Prompter == nil {
		return errMissing("prompter")
	}
	return inv.deps.Prompter.Notify(ctx, msg)
}

func (inv *Invocation) openURL(ctx context.Context, url string) error {
	if inv.deps.Platform == nil {
		return errMissing("platform")
	}
	return inv.deps.Platform.OpenURL(ctx, url)
}

func (inv *Invocation) deepLink(ctx context.Context, url string) error {
	if inv.deps.Platform == nil {
		return errMissing("platform")
	}
	return inv.deps.Platform.HandleDeepLink(ctx, url)
}

func (c *Command) builtinActions() map[domain.ButtonType]Action {
	return map[domain.ButtonType]Action{
		domain.ButtonPostText:          ActionFunc(postText),
		domain.ButtonOpenURL:           ActionFunc(openURL),
		domain.ButtonGetText:           ActionFunc(getText),
		domain.ButtonGetEmail:          ActionFunc(getEmail),
		domain.ButtonGetNumber:         ActionFunc(getNumber),
		domain.ButtonGetPhoneNumber:    ActionFunc(getPhoneNumber),
		domain.ButtonGetItemFromSource: ActionFunc(getItemFromSource),
		domain.ButtonGetAddress:        ActionFunc(getAddress),
		domain.ButtonGetImage:          ActionFunc(getMedia),
		domain.ButtonGetFile:           ActionFunc(getMedia),
		domain.ButtonGetAudio:          ActionFunc(getMedia),
		domain.ButtonGetVideo:          ActionFunc(getMedia),
		domain.ButtonNextNode:          ActionFunc(nextNode),
		domain.ButtonDeepLink:          ActionFunc(deepLink),
		domain.ButtonGetAgent:          ActionFunc(getAgent),
		domain.ButtonFetchChatFlow:     ActionFunc(fetchChatFlow),
		domain.ButtonGetDate:           ActionFunc(c.getDate),
		domain.ButtonGetDateTime:       ActionFunc(c.getDateTime),
		domain.ButtonGetTime:           ActionFunc(c.getTime),
		domain.ButtonGetLocation:       ActionFunc(c.getLocation),
	}
}

func unsupported(ctx context.Context, inv *Invocation) (Step, error) {
	return Continue, inv.Notify(ctx, msgUnsupported(inv.Button.ButtonType))
}
