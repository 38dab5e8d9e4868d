package dispatch

import (
	"context"
	"strings"

	"github.com/aretw0/chatsim/pkg/validation"
)

func getText(ctx context.Context, inv *Invocation) (Step, error) {
	b := &inv.Button
	if strings.TrimSpace(b.VariableValue) == "" {
		return Abort, nil
	}
	if !validation.IsValidTextButton(b.VariableValue, b) {
		return Abort, inv.Notify(ctx, msgInvalidText(b))
	}
	return captured(ctx, inv, b.VariableValue, b.VariableValue)
}

func getEmail(ctx context.Context, inv *Invocation) (Step, error) {
	return checked(ctx, inv, validation.IsValidEmail)
}

func getPhoneNumber(ctx context.Context, inv *Invocation) (Step, error) {
	return checked(ctx, inv, validation.IsValidPhoneNumber)
}

func getNumber(ctx context.Context, inv *Invocation) (Step, error) {
	b := &inv.Button
	if strings.TrimSpace(b.VariableValue) == "" {
		return Abort, nil
	}
	n, ok := validation.ParseNumber(b.VariableValue)
	if !ok {
		return Abort, inv.Notify(ctx, msgInvalidFormat)
	}
	return captured(ctx, inv, n, n)
}

func getItemFromSource(ctx context.Context, inv *Invocation) (Step, error) {
	b := &inv.Button
	item, ok := validation.MatchItem(b.Items, b.VariableValue)
	if !ok {
		return Abort, inv.Notify(ctx, msgInvalidValue)
	}
	return captured(ctx, inv, item.Key, b.VariableValue)
}

// checked aborts silently on blank input and with a dialog on a value rejected by valid.
func checked(ctx context.Context, inv *Invocation, valid func(string) bool) (Step, error) {
	v := inv.Button.VariableValue
	if strings.TrimSpace(v) == "" {
		return Abort, nil
	}
	if !valid(v) {
		return Abort, inv.Notify(ctx, msgInvalidFormat)
	}
	return captured(ctx, inv, v, v)
}

// captured saves stored under the button variable and echoes shown.
func captured(ctx context.Context, inv *Invocation, stored, shown string) (Step, error) {
	if err := inv.Save(ctx, inv.Button.VariableName, stored); err != nil {
		return Abort, err
	}
	if err := inv.PostInput(ctx, shown); err != nil {
		return Abort, err
	}
	return Continue, nil
}
