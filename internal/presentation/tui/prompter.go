package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/validation"
	"github.com/charmbracelet/huh"
)

// Layouts typed into the picker dialogs.
const (
	LayoutDate     = "2006-01-02"
	LayoutTime     = "15:04"
	LayoutDateTime = "2006-01-02 15:04"
)

// Prompter shows dialogs as huh forms. Esc or Ctrl+C dismisses a dialog.
type Prompter struct {
	accessible bool
	loc        *time.Location
	position   domain.Location
}

// PrompterOption configures a Prompter.
type PrompterOption func(*Prompter)

// WithAccessible switches forms to plain line prompts for screen readers and pipes.
func WithAccessible(on bool) PrompterOption {
	return func(p *Prompter) {
		p.accessible = on
	}
}

// WithLocation sets the zone typed dates and times are read in.
func WithLocation(loc *time.Location) PrompterOption {
	return func(p *Prompter) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithPosition pre-fills the coordinates of the address form.
func WithPosition(pos domain.Location) PrompterOption {
	return func(p *Prompter) {
		p.position = pos
	}
}

// NewPrompter creates a form based prompter.
func NewPrompter(opts ...PrompterOption) *Prompter {
	p := &Prompter{loc: time.Local}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Prompter) run(ctx context.Context, group *huh.Group) (bool, error) {
	err := huh.NewForm(group).WithAccessible(p.accessible).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Notify shows msg until the user confirms it.
func (p *Prompter) Notify(ctx context.Context, msg string) error {
	_, err := p.run(ctx, huh.NewGroup(
		huh.NewNote().Title("Notice").Description(msg).Next(true).NextLabel("OK"),
	))
	return err
}

// PromptAddress shows the address form. Every field is required and the
// coordinates must be non-zero numbers.
func (p *Prompter) PromptAddress(ctx context.Context) (domain.Address, bool, error) {
	var addr domain.Address
	required := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", field)
			}
			return nil
		}
	}
	coordinate := func(field string) func(string) error {
		return func(s string) error {
			if _, ok := validation.ParseCoordinate(s); !ok {
				return fmt.Errorf("%s must be a non-zero number", field)
			}
			return nil
		}
	}
	lat, lng := prefill(p.position.Latitude), prefill(p.position.Longitude)
	ok, err := p.run(ctx, huh.NewGroup(
		huh.NewInput().Title("Street address").Value(&addr.StreetAddress).Validate(required("street address")),
		huh.NewInput().Title("City").Value(&addr.City).Validate(required("city")),
		huh.NewInput().Title("Country").Value(&addr.Country).Validate(required("country")),
		huh.NewInput().Title("Pin code").Value(&addr.PinCode).Validate(required("pin code")),
		huh.NewInput().Title("Latitude").Value(&lat).Validate(coordinate("latitude")),
		huh.NewInput().Title("Longitude").Value(&lng).Validate(coordinate("longitude")),
	))
	if err != nil || !ok {
		return domain.Address{}, false, err
	}
	addr.Lat, _ = validation.ParseCoordinate(lat)
	addr.Lng, _ = validation.ParseCoordinate(lng)
	return addr, true, nil
}

func prefill(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PickDateTime shows a single input validated against the layout of mode.
func (p *Prompter) PickDateTime(ctx context.Context, mode domain.PickerMode) (time.Time, bool, error) {
	layout := LayoutDateTime
	switch mode {
	case domain.PickDate:
		layout = LayoutDate
	case domain.PickTime:
		layout = LayoutTime
	}

	var raw string
	var picked time.Time
	ok, err := p.run(ctx, huh.NewGroup(
		huh.NewInput().
			Title(mode.Title()).
			Placeholder(layout).
			Value(&raw).
			Validate(func(s string) error {
				v, err := time.ParseInLocation(layout, strings.TrimSpace(s), p.loc)
				if err != nil {
					return fmt.Errorf("expected %s", layout)
				}
				picked = v
				return nil
			}),
	))
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	return picked, true, nil
}
