package core

import (
	"time"

	"github.com/ameblo/vouch/pkg/crypto"
)

type Config struct {
	Secret string

	Database UserStorage

	Mailer Mailer

	HTTP HTTPAdapter

	// Optional config
	Challenges     ChallengeStore
	PasswordHasher crypto.PasswordHandler
	Tokens         TokenIssuer
	ChallengeTTL   time.Duration
	TokenTTL       time.Duration
	BasePath       string
}

type Vouch struct {
	Auth     AuthProvider
	Users    UserProvider
	Tokens   TokenIssuer
	BasePath string
}
