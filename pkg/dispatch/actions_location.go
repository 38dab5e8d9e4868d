package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/aretw0/chatsim/pkg/domain"
)

const staticMapURL = "https://maps.googleapis.com/maps/api/staticmap?center=%s&zoom=15&size=300x150&markers=color:red|label:A|%s&key=%s"

func (c *Command) getLocation(ctx context.Context, inv *Invocation) (Step, error) {
	if inv.deps.Platform == nil {
		return Abort, errMissing("platform")
	}
	loc, err := inv.deps.Platform.CurrentLocation(ctx)
	if err != nil {
		return Abort, fmt.Errorf("failed to read location: %w", err)
	}

	b := &inv.Button
	b.VariableValue = FormatLocation(loc)
	if err := inv.Save(ctx, b.VariableName, b.VariableValue); err != nil {
		return Abort, err
	}
	if !b.ShouldPost() {
		return Continue, nil
	}
	mapURL := StaticMapURL(b.VariableValue, c.mapsAPIKey)
	return Continue, inv.PostMedia(ctx, mapURL, domain.MediaImage, b.VariableValue)
}

// FormatLocation renders a fix as "lat,lng" in single precision.
func FormatLocation(l domain.Location) string {
	return strconv.FormatFloat(float64(float32(l.Latitude)), 'f', -1, 32) + "," +
		strconv.FormatFloat(float64(float32(l.Longitude)), 'f', -1, 32)
}

// StaticMapURL builds the static map image URL centred on the "lat,lng" value.
func StaticMapURL(value, apiKey string) string {
	return fmt.Sprintf(staticMapURL, value, value, url.QueryEscape(apiKey))
}
