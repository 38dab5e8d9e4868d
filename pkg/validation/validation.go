// Package validation checks values typed into chat input buttons.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IsValidTextButton reports whether text is non-empty and its length in runes
// lies within the button's bounds. A MaxLength of zero leaves the upper bound open.
func IsValidTextButton(text string, b *domain.Button) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	tag := fmt.Sprintf("required,min=%d", max(b.MinLength, 0))
	if b.MaxLength > 0 {
		tag += fmt.Sprintf(",max=%d", b.MaxLength)
	}
	return validate.Var(text, tag) == nil
}

// IsValidEmail reports whether value is a well-formed email address.
func IsValidEmail(value string) bool {
	return validate.Var(strings.TrimSpace(value), "required,email") == nil
}

// NormalizePhoneNumber strips common separators and ensures a leading '+'.
func NormalizePhoneNumber(value string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(value))
	if cleaned != "" && !strings.HasPrefix(cleaned, "+") {
		cleaned = "+" + cleaned
	}
	return cleaned
}

// IsValidPhoneNumber reports whether value is an E.164 phone number once separators are removed.
func IsValidPhoneNumber(value string) bool {
	return validate.Var(NormalizePhoneNumber(value), "required,e164") == nil
}

// ParseNumber parses value as a finite double and returns its shortest form.
// Exponents of 15 and above or below -4 are written as 1E+21 and 1E-05.
func ParseNumber(value string) (string, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	sci := strconv.FormatFloat(f, 'E', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'E')+1:])
	if f != 0 && (exp >= 15 || exp < -4) {
		return sci, true
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

// ParseCoordinate reads a latitude or longitude. Zero counts as missing.
func ParseCoordinate(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ValidateStrings reports whether every value is non-blank.
func ValidateStrings(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// ValidAddress reports whether all six address fields are present.
func ValidAddress(a domain.Address) bool {
	return ValidateStrings(a.City, a.PinCode, a.Country, a.LatString(), a.LngString(), a.StreetAddress)
}

// MatchItem returns the first item whose Value equals value exactly.
func MatchItem(items []domain.Item, value string) (domain.Item, bool) {
	for _, it := range items {
		if it.Value == value {
			return it, true
		}
	}
	return domain.Item{}, false
}
