package dispatch

import (
	"fmt"

	"github.com/aretw0/chatsim/pkg/domain"
)

const (
	msgInvalidFormat    = "Invalid format"
	msgInvalidValue     = "Invalid value"
	msgAddressMandatory = "All fields in address are mandatory!"
	msgAgentUnsupported = "Agent chat not supported in simulator"
)

func msgInvalidText(b *domain.Button) string {
	return fmt.Sprintf("The text should not be empty and it should be between %d and %d", b.MinLength, b.MaxLength)
}

func msgUnsupported[T ~string](t T) string {
	return fmt.Sprintf("Button type: %s not supported", t)
}

// Variable names written by the address dialog.
const (
	VarCity          = "CITY"
	VarCountry       = "COUNTRY"
	VarPinCode       = "PINCODE"
	VarLat           = "LAT"
	VarLng           = "LNG"
	VarStreetAddress = "STREET_ADDRESS"
)

// Suffixes of the display variants saved by date and time pickers.
const (
	SuffixDisplay  = "_DISPLAY"
	SuffixDisplay2 = "_DISPLAY2"
	SuffixDisplay3 = "_DISPLAY3"
)
