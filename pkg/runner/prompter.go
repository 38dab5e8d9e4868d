package runner

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/validation"
)

// Input layouts accepted by the line based date and time pickers.
const (
	InputDate     = "2006-01-02"
	InputTime     = "15:04"
	InputDateTime = "2006-01-02 15:04"
)

// HandlerPrompter answers dialogs by asking questions through an IOHandler.
// A blank answer to the first question dismisses the dialog.
type HandlerPrompter struct {
	Handler IOHandler
	// Location interprets typed dates and times. Defaults to time.Local.
	Location *time.Location
	// Position pre-fills the address coordinates. A blank answer keeps it.
	Position domain.Location
}

// NewHandlerPrompter creates a prompter bound to h.
func NewHandlerPrompter(h IOHandler) *HandlerPrompter {
	return &HandlerPrompter{Handler: h, Location: time.Local}
}

func (p *HandlerPrompter) ask(ctx context.Context, question string) (string, error) {
	if err := p.Handler.SystemOutput(ctx, question); err != nil {
		return "", err
	}
	line, err := p.Handler.Input(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Notify shows msg and waits for any line.
func (p *HandlerPrompter) Notify(ctx context.Context, msg string) error {
	_, err := p.ask(ctx, msg+" (press enter)")
	return err
}

// PromptAddress asks for each address field in turn, then the coordinates.
func (p *HandlerPrompter) PromptAddress(ctx context.Context) (domain.Address, bool, error) {
	var addr domain.Address
	street, err := p.ask(ctx, "Street address (blank to dismiss):")
	if err != nil || street == "" {
		return addr, false, err
	}
	addr.StreetAddress = street

	fields := []struct {
		question string
		dst      *string
	}{
		{"City:", &addr.City},
		{"Country:", &addr.Country},
		{"Pin code:", &addr.PinCode},
	}
	for _, f := range fields {
		v, err := p.ask(ctx, f.question)
		if err != nil {
			return domain.Address{}, false, err
		}
		*f.dst = v
	}

	if addr.Lat, err = p.askCoordinate(ctx, "Latitude", p.Position.Latitude); err != nil {
		return domain.Address{}, false, err
	}
	if addr.Lng, err = p.askCoordinate(ctx, "Longitude", p.Position.Longitude); err != nil {
		return domain.Address{}, false, err
	}
	return addr, true, nil
}

// askCoordinate repeats the question until it gets a non-zero number.
func (p *HandlerPrompter) askCoordinate(ctx context.Context, label string, def float64) (float64, error) {
	question := label + ":"
	if def != 0 {
		question = fmt.Sprintf("%s [%s]:", label, strconv.FormatFloat(def, 'f', -1, 64))
	}
	for {
		answer, err := p.ask(ctx, question)
		if err != nil {
			return 0, err
		}
		if answer == "" && def != 0 {
			return def, nil
		}
		if v, ok := validation.ParseCoordinate(answer); ok {
			return v, nil
		}
		if err := p.Handler.SystemOutput(ctx, label+" must be a non-zero number."); err != nil {
			return 0, err
		}
	}
}

// PickDateTime asks for a value in the layout matching mode until it parses.
func (p *HandlerPrompter) PickDateTime(ctx context.Context, mode domain.PickerMode) (time.Time, bool, error) {
	layout := InputDateTime
	switch mode {
	case domain.PickDate:
		layout = InputDate
	case domain.PickTime:
		layout = InputTime
	}
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}

	question := fmt.Sprintf("%s (%s, blank to cancel):", mode.Title(), layout)
	for {
		answer, err := p.ask(ctx, question)
		if err != nil || answer == "" {
			return time.Time{}, false, err
		}
		v, err := time.ParseInLocation(layout, answer, loc)
		if err == nil {
			return v, true, nil
		}
		if err := p.Handler.SystemOutput(ctx, fmt.Sprintf("Invalid value %q.", answer)); err != nil {
			return time.Time{}, false, err
		}
	}
}
