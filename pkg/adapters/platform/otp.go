package platform

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
)

// StaticOTP always reports the same passcode.
type StaticOTP string

// CurrentOTP implements ports.OTPSource.
func (o StaticOTP) CurrentOTP(ctx context.Context) (string, error) {
	return string(o), ctx.Err()
}

// OTPGenerator issues one random numeric passcode, shared by every session
// for the generator's lifetime.
type OTPGenerator struct {
	digits int

	mu   sync.Mutex
	code string
}

// NewOTPGenerator creates a generator of codes with the given number of digits (default 6).
func NewOTPGenerator(digits int) *OTPGenerator {
	if digits <= 0 {
		digits = 6
	}
	return &OTPGenerator{digits: digits}
}

// CurrentOTP implements ports.OTPSource.
func (g *OTPGenerator) CurrentOTP(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.code == "" {
		code, err := g.generate()
		if err != nil {
			return "", err
		}
		g.code = code
	}
	return g.code, nil
}

func (g *OTPGenerator) generate() (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(g.digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", g.digits, n), nil
}
