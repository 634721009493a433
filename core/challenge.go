package core

import "time"

// Challenge is a pending OTP verification record, keyed by email.
//
// PasswordHash and Name are only set for signup challenges: the user row is
// not created until the code is verified, so the deferred signup data rides
// along on the challenge. Login and resend challenges carry neither.
type Challenge struct {
	Email        string
	Code         string // 6 ASCII digits
	ExpiresAt    time.Time
	PasswordHash string
	Name         string
}

// IsSignup reports whether this challenge carries deferred signup data.
func (c *Challenge) IsSignup() bool {
	return c.PasswordHash != "" || c.Name != ""
}

// Expired reports whether the challenge is no longer valid at the given
// instant. The boundary itself counts as expired.
func (c *Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
