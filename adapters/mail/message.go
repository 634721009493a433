// Package mail delivers OTP codes: an SMTP mailer for real deployments and
// a console mailer for local development.
package mail

import (
	"fmt"

	"github.com/ameblo/vouch"
)

func subjectFor(purpose vouch.OTPPurpose) string {
	switch purpose {
	case vouch.OTPPurposeSignup:
		return "Verify your account"
	case vouch.OTPPurposeResend:
		return "Your OTP (Resent)"
	default:
		return "Your Login OTP"
	}
}

func bodyFor(code string, purpose vouch.OTPPurpose) string {
	switch purpose {
	case vouch.OTPPurposeSignup:
		return fmt.Sprintf("Your signup OTP is: %s", code)
	case vouch.OTPPurposeResend:
		return fmt.Sprintf("Your new OTP is: %s", code)
	default:
		return fmt.Sprintf("Your OTP is: %s", code)
	}
}
