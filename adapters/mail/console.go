package mail

import (
	"context"
	"log/slog"

	"github.com/ameblo/vouch"
)

// ConsoleMailer is a development implementation that logs codes instead of
// sending email. Never use it in a real deployment.
type ConsoleMailer struct{}

var _ vouch.Mailer = (*ConsoleMailer)(nil)

func NewConsole() *ConsoleMailer {
	return &ConsoleMailer{}
}

func (m *ConsoleMailer) SendOTP(ctx context.Context, to, code string, purpose vouch.OTPPurpose) error {
	slog.Info("otp mail",
		"to", to,
		"subject", subjectFor(purpose),
		"body", bodyFor(code, purpose),
	)
	return nil
}
