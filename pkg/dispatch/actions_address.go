package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/validation"
)

// getAddress keeps showing the address dialog until every field is filled in.
// Dismissing the dialog ends the action without saving.
func getAddress(ctx context.Context, inv *Invocation) (Step, error) {
	p := inv.deps.Prompter
	if p == nil {
		return Abort, errMissing("prompter")
	}

	for {
		if err := ctx.Err(); err != nil {
			return Abort, err
		}

		addr, ok, err := p.PromptAddress(ctx)
		if errors.Is(err, domain.ErrDialogDismissed) {
			ok, err = false, nil
		}
		if err != nil {
			return Abort, fmt.Errorf("address dialog: %w", err)
		}
		if !ok {
			return Abort, nil
		}

		if validation.ValidAddress(addr) {
			return saveAddress(ctx, inv, addr)
		}
		if err := inv.Notify(ctx, msgAddressMandatory); err != nil {
			return Abort, err
		}
	}
}

func saveAddress(ctx context.Context, inv *Invocation, a domain.Address) (Step, error) {
	fields := []struct{ name, value string }{
		{VarCity, a.City},
		{VarCountry, a.Country},
		{VarPinCode, a.PinCode},
		{VarLat, a.LatString()},
		{VarLng, a.LngString()},
		{VarStreetAddress, a.StreetAddress},
	}
	for _, f := range fields {
		if err := inv.Save(ctx, f.name, f.value); err != nil {
			return Abort, err
		}
	}

	block := fmt.Sprintf("%s\r\n\r\nCity: %s\r\nCountry: %s\r\nPin: %s", a.StreetAddress, a.City, a.Country, a.PinCode)
	if err := inv.PostIfVisible(ctx, block); err != nil {
		return Abort, err
	}
	return Continue, nil
}
