package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fullAddress = domain.Address{
	StreetAddress: "221B Baker Street",
	City:          "London",
	Country:       "UK",
	PinCode:       "NW16XE",
	Lat:           51.5237,
	Lng:           -0.1585,
}

func addressButton() domain.Button {
	return domain.Button{ButtonType: domain.ButtonGetAddress, PostToChat: true, NextNodeID: "thanks"}
}

func TestGetAddress_SavesAllFieldsAndPosts(t *testing.T) {
	cmd, rec, p := setup()
	p.QueueAddress(fullAddress)

	res, err := cmd.Execute(context.Background(), addressButton())
	require.NoError(t, err)
	assert.True(t, res.Completed())

	assert.Equal(t, []string{"CITY", "COUNTRY", "PINCODE", "LAT", "LNG", "STREET_ADDRESS"}, rec.saveOrder)
	assert.Equal(t, "51.5237", rec.vars["LAT"])
	assert.Equal(t, "-0.1585", rec.vars["LNG"])
	assert.Len(t, res.UserData, 6)
	assert.Equal(t, []post{{Text: "221B Baker Street\r\n\r\nCity: London\r\nCountry: UK\r\nPin: NW16XE"}}, rec.posts)
	assert.Equal(t, []string{"thanks"}, rec.navs)
}

func TestGetAddress_RepromptsUntilComplete(t *testing.T) {
	cmd, rec, p := setup()
	missingPin := fullAddress
	missingPin.PinCode = ""
	zeroLat := fullAddress
	zeroLat.Lat = 0
	p.QueueAddress(missingPin).QueueAddress(zeroLat).QueueAddress(fullAddress)

	res, err := cmd.Execute(context.Background(), addressButton())
	require.NoError(t, err)
	assert.True(t, res.Completed())
	assert.Equal(t, []string{msgAddressMandatory, msgAddressMandatory}, p.Notices())
	assert.Equal(t, []string{"thanks"}, rec.navs, "navigation only after all fields are present")
}

func TestGetAddress_DismissEndsLoop(t *testing.T) {
	cmd, rec, p := setup()
	partial := fullAddress
	partial.City = ""
	p.QueueAddress(partial).DismissAddress()

	res, err := cmd.Execute(context.Background(), addressButton())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAborted, res.Outcome)
	assert.Empty(t, rec.vars)
	assert.Empty(t, rec.navs)
	assert.Equal(t, []string{msgAddressMandatory}, p.Notices())
}

func TestGetAddress_CancelledContext(t *testing.T) {
	cmd, rec, _ := setup()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := cmd.Execute(ctx, addressButton())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.OutcomeFailed, res.Outcome)
	assert.Empty(t, rec.navs)
}

func TestGetDate(t *testing.T) {
	cmd, rec, p := setup()
	p.QueuePick(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC))

	_, err := cmd.Execute(context.Background(), domain.Button{
		ButtonType: domain.ButtonGetDate, VariableName: "DOB", PostToChat: true, NextNodeID: "n",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", rec.vars["DOB"])
	assert.Equal(t, "05 Mar, 2024", rec.vars["DOB_DISPLAY"])
	assert.Equal(t, []post{{Text: "2024-03-05"}}, rec.posts)
	assert.Equal(t, []domain.PickerMode{domain.PickDate}, p.Modes())
	assert.Equal(t, []string{"n"}, rec.navs)
}

func TestGetDateTime(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	cmd, rec, p := setup(WithTimeLocation(kolkata))
	p.QueuePick(time.Date(2024, time.March, 5, 15, 4, 5, 0, kolkata))

	res, err := cmd.Execute(context.Background(), domain.Button{
		ButtonType: domain.ButtonGetDateTime, VariableName: "AT", PostToChat: true, NextNodeID: "n",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05T09:34:05Z", rec.vars["AT"])
	assert.Equal(t, "05 Mar, 2024 03:04:05 PM", rec.vars["AT_DISPLAY"])
	assert.Equal(t, "05 Mar, 2024 09:34:05 AM", rec.vars["AT_DISPLAY2"])
	assert.Equal(t, "2024-03-05T09:34:05Z", rec.vars["AT_DISPLAY3"])
	assert.Equal(t, map[string]string{"AT": "2024-03-05T09:34:05Z"}, res.UserData)
	assert.Equal(t, []post{{Text: "05 Mar, 2024 03:04:05 PM"}}, rec.posts)
}

func TestGetTime(t *testing.T) {
	cmd, rec, p := setup()
	p.QueuePick(time.Date(0, 1, 1, 21, 7, 0, 0, time.UTC))

	_, err := cmd.Execute(context.Background(), domain.Button{
		ButtonType: domain.ButtonGetTime, VariableName: "SLOT", PostToChat: true, NextNodeID: "n",
	})
	require.NoError(t, err)
	assert.Equal(t, "21:07:00", rec.vars["SLOT"])
	assert.Equal(t, "09:07 PM", rec.vars["SLOT_DISPLAY"])
	assert.Equal(t, "21:07", rec.vars["SLOT_DISPLAY2"])
	assert.Equal(t, []post{{Text: "09:07 PM"}}, rec.posts)
}

func TestGetDateTime_DisplaySaveFailure(t *testing.T) {
	cmd, rec, p := setup()
	rec.failSave = errors.New("disk full")
	rec.failSaveOf = "AT_DISPLAY2"
	p.QueuePick(time.Date(2024, time.March, 5, 15, 4, 5, 0, time.UTC))

	res, err := cmd.Execute(context.Background(), domain.Button{
		ButtonType: domain.ButtonGetDateTime, VariableName: "AT", NextNodeID: "n",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, rec.failSave)
	assert.Contains(t, err.Error(), "failed to save AT_DISPLAY2")
	assert.Equal(t, domain.OutcomeFailed, res.Outcome)
	assert.Equal(t, map[string]string{"AT": "2024-03-05T15:04:05Z"}, res.UserData)
	assert.Empty(t, rec.navs)
}

func TestPickers_CancelMeansNoSaveNoNavigation(t *testing.T) {
	for _, bt := range []domain.ButtonType{domain.ButtonGetDate, domain.ButtonGetDateTime, domain.ButtonGetTime} {
		t.Run(string(bt), func(t *testing.T) {
			cmd, rec, p := setup()
			p.CancelPick()

			res, err := cmd.Execute(context.Background(), domain.Button{ButtonType: bt, VariableName: "v", NextNodeID: "n"})
			require.NoError(t, err)
			assert.Equal(t, domain.OutcomeAborted, res.Outcome)
			assert.Empty(t, rec.vars)
			assert.Empty(t, rec.navs)
		})
	}
}
