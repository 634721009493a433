package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

const (
	otpMin   = 100000 // smallest 6-digit code; a leading zero never occurs
	otpRange = 900000
)

// GenerateOTP returns a uniformly chosen 6-digit decimal code in the
// inclusive range 100000-999999, drawn from a cryptographically secure
// source.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpRange))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return strconv.FormatInt(otpMin+n.Int64(), 10), nil
}
