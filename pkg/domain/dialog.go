package domain

import "strconv"

// Address is the result of the address dialog.
// A zero Lat or Lng counts as not provided.
type Address struct {
	StreetAddress string  `json:"street_address" yaml:"street_address" mapstructure:"street_address"`
	City          string  `json:"city" yaml:"city" mapstructure:"city"`
	Country       string  `json:"country" yaml:"country" mapstructure:"country"`
	PinCode       string  `json:"pin_code" yaml:"pin_code" mapstructure:"pin_code"`
	Lat           float64 `json:"lat" yaml:"lat" mapstructure:"lat"`
	Lng           float64 `json:"lng" yaml:"lng" mapstructure:"lng"`
}

// LatString renders the latitude, or "" when unset.
func (a Address) LatString() string { return coord(a.Lat) }

// LngString renders the longitude, or "" when unset.
func (a Address) LngString() string { return coord(a.Lng) }

func coord(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Location is a device geolocation fix.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PickerMode selects the kind of date/time picker to show.
type PickerMode string

const (
	PickDate     PickerMode = "date"
	PickDateTime PickerMode = "datetime"
	PickTime     PickerMode = "time"
)

// Title is the heading shown on the picker dialog.
func (m PickerMode) Title() string {
	switch m {
	case PickDate:
		return "Pick a date"
	case PickTime:
		return "Pick time"
	default:
		return "Pick date time"
	}
}
