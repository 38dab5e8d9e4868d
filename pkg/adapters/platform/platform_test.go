package platform_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/aretw0/chatsim/pkg/adapters/platform"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Platform = (*platform.Simulator)(nil)

func TestSimulator_RecordsURLsAndLinks(t *testing.T) {
	ctx := context.Background()
	sim := platform.NewSimulator()

	require.NoError(t, sim.OpenURL(ctx, "https://example.com"))
	require.NoError(t, sim.HandleDeepLink(ctx, "app://orders/42"))

	assert.Equal(t, []string{"https://example.com"}, sim.Opened())
	assert.Equal(t, []string{"app://orders/42"}, sim.DeepLinks())

	assert.Error(t, sim.HandleDeepLink(ctx, "%zz"))
}

func TestSimulator_Location(t *testing.T) {
	sim := platform.NewSimulator(platform.WithLocation(12.97, 77.59))
	loc, err := sim.CurrentLocation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Location{Latitude: 12.97, Longitude: 77.59}, loc)
}

func TestSimulator_PickMedia(t *testing.T) {
	ctx := context.Background()

	url, err := platform.NewSimulator().PickMedia(ctx, "PHOTO", domain.MediaImage)
	require.NoError(t, err)
	assert.Empty(t, url)

	sim := platform.NewSimulator(platform.WithMediaSource(platform.StaticMedia("https://cdn/x.png")))
	url, err = sim.PickMedia(ctx, "PHOTO", domain.MediaImage)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/x.png", url)
}

func TestOTP(t *testing.T) {
	ctx := context.Background()

	code, err := platform.StaticOTP("1234").CurrentOTP(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1234", code)

	gen := platform.NewOTPGenerator(6)
	first, err := gen.CurrentOTP(ctx)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), first)

	again, _ := gen.CurrentOTP(ctx)
	assert.Equal(t, first, again, "code is stable for the generator's lifetime")

	short, err := platform.NewOTPGenerator(0).CurrentOTP(ctx)
	require.NoError(t, err)
	assert.Len(t, short, 6, "digits default to 6")
}
