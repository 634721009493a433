// Package vouch is a small OTP-based email authentication backend: user
// registration and login complete through a short-lived one-time passcode
// challenge, after which a signed session token is issued.
package vouch

import (
	"fmt"

	"github.com/ameblo/vouch/core"
	"github.com/ameblo/vouch/pkg/cache"
	"github.com/ameblo/vouch/pkg/crypto"
	"github.com/ameblo/vouch/pkg/token"
	"github.com/ameblo/vouch/services"
)

// interfaces
type (
	UserStorage    = core.UserStorage
	ChallengeStore = core.ChallengeStore
	Mailer         = core.Mailer
	TokenIssuer    = core.TokenIssuer

	HTTPAdapter = core.HTTPAdapter

	AuthProvider = core.AuthProvider
	UserProvider = core.UserProvider

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	Vouch  = core.Vouch
	Config = core.Config
)

type OTPPurpose = core.OTPPurpose

const (
	OTPPurposeLogin  = core.OTPPurposeLogin
	OTPPurposeSignup = core.OTPPurposeSignup
	OTPPurposeResend = core.OTPPurposeResend
)

type (
	User           = core.User
	PublicUser     = core.PublicUser
	Challenge      = core.Challenge
	TokenClaims    = core.TokenClaims
	ChallengeStats = core.ChallengeStats

	LoginInput       = core.LoginInput
	SignupInput      = core.SignupInput
	VerifyOTPInput   = core.VerifyOTPInput
	SocialLoginInput = core.SocialLoginInput
	ChallengeResult  = core.ChallengeResult
	TokenResult      = core.TokenResult
)

const (
	defaultBasePath  = "/api"
	defaultSecretLen = 32
)

// Constructors & helpers (convenience re-exports)
var (
	NewMemoryChallengeStore = cache.NewMemoryChallengeStore
	NewArgon2               = crypto.NewArgon2
	NewJWT                  = token.NewJWT
)

var (
	ErrEmailInUse         = core.ErrEmailInUse
	ErrUserNotFound       = core.ErrUserNotFound
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrUserCreationFailed = core.ErrUserCreationFailed
)

var (
	ErrInvalidOrExpiredOTP = core.ErrInvalidOrExpiredOTP
	ErrChallengeNotFound   = core.ErrChallengeNotFound
)

var (
	ErrMissingAuthHeader = core.ErrMissingAuthHeader
	ErrInvalidToken      = core.ErrInvalidToken
)

var (
	ErrEmailRequired    = core.ErrEmailRequired
	ErrPasswordRequired = core.ErrPasswordRequired
	ErrNameRequired     = core.ErrNameRequired
	ErrInvalidEmail     = core.ErrInvalidEmail
	ErrPasswordTooShort = core.ErrPasswordTooShort
)

var (
	ErrDBAdapterRequired   = core.ErrDBAdapterRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
	ErrMailerRequired      = core.ErrMailerRequired
	ErrSecretRequired      = core.ErrSecretRequired
	ErrSecretTooShort      = core.ErrSecretTooShort
)

func New(config Config) (*Vouch, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < defaultSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, defaultSecretLen)
	}
	if config.Database == nil {
		return nil, ErrDBAdapterRequired
	}
	if config.Mailer == nil {
		return nil, ErrMailerRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	challenges := config.Challenges
	if challenges == nil {
		challenges = cache.NewMemoryChallengeStore(core.ChallengeStoreConfig{
			MaxSize: 500,
		})
	}

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = crypto.NewArgon2()
	}

	tokens := config.Tokens
	if tokens == nil {
		tokens = token.NewJWT(config.Secret, config.TokenTTL)
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	auth := services.NewAuthService(
		config.Database,
		challenges,
		passwordHasher,
		tokens,
		config.Mailer,
		config.ChallengeTTL,
	)

	v := &Vouch{
		Auth:     auth,
		Users:    services.NewUserService(config.Database),
		Tokens:   tokens,
		BasePath: basePath,
	}

	if err := config.HTTP.RegisterRoutes(v); err != nil {
		return nil, err
	}

	return v, nil
}
