package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/chatsim/pkg/domain"
)

// Layouts of the values and display variants saved by the pickers.
const (
	layoutDate        = "2006-01-02"
	layoutDateDisplay = "02 Jan, 2006"
	layoutDateTime    = "02 Jan, 2006 03:04:05 PM"
	layoutISO         = time.RFC3339
	layoutTimeValue   = "15:04:05"
	layoutTime12      = "03:04 PM"
	layoutTime24      = "15:04"
)

func (c *Command) pick(ctx context.Context, inv *Invocation, mode domain.PickerMode) (time.Time, bool, error) {
	p := inv.deps.Prompter
	if p == nil {
		return time.Time{}, false, errMissing("prompter")
	}
	v, ok, err := p.PickDateTime(ctx, mode)
	if errors.Is(err, domain.ErrDialogDismissed) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s picker: %w", mode, err)
	}
	return v, ok, nil
}

func (c *Command) getDate(ctx context.Context, inv *Invocation) (Step, error) {
	v, ok, err := c.pick(ctx, inv, domain.PickDate)
	if err != nil || !ok {
		return Abort, err
	}

	b := &inv.Button
	b.VariableValue = v.Format(layoutDate)
	if err := saveVariants(ctx, inv,
		b.VariableValue,
		v.Format(layoutDateDisplay),
	); err != nil {
		return Abort, err
	}
	return Continue, inv.PostIfVisible(ctx, b.VariableValue)
}

func (c *Command) getDateTime(ctx context.Context, inv *Invocation) (Step, error) {
	v, ok, err := c.pick(ctx, inv, domain.PickDateTime)
	if err != nil || !ok {
		return Abort, err
	}

	local := v.In(c.loc)
	utc := v.UTC()
	display := local.Format(layoutDateTime)

	b := &inv.Button
	b.VariableValue = utc.Format(layoutISO)
	if err := saveVariants(ctx, inv,
		b.VariableValue,
		display,
		utc.Format(layoutDateTime),
		utc.Format(layoutISO),
	); err != nil {
		return Abort, err
	}
	return Continue, inv.PostIfVisible(ctx, display)
}

func (c *Command) getTime(ctx context.Context, inv *Invocation) (Step, error) {
	v, ok, err := c.pick(ctx, inv, domain.PickTime)
	if err != nil || !ok {
		return Abort, err
	}

	display := v.Format(layoutTime12)

	b := &inv.Button
	b.VariableValue = v.Format(layoutTimeValue)
	if err := saveVariants(ctx, inv,
		b.VariableValue,
		display,
		v.Format(layoutTime24),
	); err != nil {
		return Abort, err
	}
	return Continue, inv.PostIfVisible(ctx, display)
}

// saveVariants stores the value under the button variable and each display
// variant under the matching _DISPLAY suffix.
func saveVariants(ctx context.Context, inv *Invocation, value string, displays ...string) error {
	name := inv.Button.VariableName
	if err := inv.Save(ctx, name, value); err != nil {
		return err
	}
	suffixes := []string{SuffixDisplay, SuffixDisplay2, SuffixDisplay3}
	for i, d := range displays {
		if err := inv.store(ctx, name+suffixes[i], d); err != nil {
			return err
		}
	}
	return nil
}
