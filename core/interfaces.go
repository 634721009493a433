package core

import (
	"context"
)

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORT (Database operations)
// ============================================

// UserStorage defines user-related database operations.
//
// CreateUser must enforce email uniqueness and return ErrEmailInUse on a
// duplicate; lookups return ErrUserNotFound when no row matches.
type UserStorage interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// ============================================
// CHALLENGE STORE PORT
// ============================================

// ChallengeStore holds at most one pending OTP challenge per email.
//
// Put unconditionally replaces any existing challenge for that email. The
// store performs no expiry sweeping of its own; callers check the challenge's
// expiry at read time. Implementations must be safe for concurrent use.
//
// The in-memory implementation in pkg/cache is process-local: a horizontally
// scaled deployment will fail verification whenever the verifying request
// lands on a different process than the one that issued the challenge. Back
// this port with a shared store (keyed by email, with a TTL) before scaling
// past one process.
type ChallengeStore interface {
	Put(email string, challenge *Challenge) error
	Get(email string) (*Challenge, error)
	Delete(email string) error
	Clear() error
}

// ChallengeStoreWithStats extends ChallengeStore with statistics tracking.
type ChallengeStoreWithStats interface {
	ChallengeStore
	Stats() ChallengeStats
}

// ChallengeStoreConfig configures the in-memory challenge store.
type ChallengeStoreConfig struct {
	MaxSize int
}

// ChallengeStats are simple counters for challenge store behavior.
// These are intended for diagnostics and monitoring.
type ChallengeStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Puts      int64 `json:"puts"`
	Deletes   int64 `json:"deletes"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
}

// ============================================
// MAIL PORT
// ============================================

// OTPPurpose selects the subject and wording of an OTP email.
type OTPPurpose string

const (
	OTPPurposeLogin  OTPPurpose = "login"
	OTPPurposeSignup OTPPurpose = "signup"
	OTPPurposeResend OTPPurpose = "resend"
)

// Mailer delivers one-time passcodes to an email address.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, purpose OTPPurpose) error
}

// ============================================
// TOKEN PORT
// ============================================

// TokenIssuer signs and verifies time-limited bearer tokens carrying a
// user identity claim.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
	Verify(token string) (*TokenClaims, error)
}

// ============================================
// AUTH PROVIDERS (for HTTP adapters)
// ============================================

// AuthProvider exposes the authentication flows to HTTP adapters.
type AuthProvider interface {
	Login(ctx context.Context, input LoginInput) (*ChallengeResult, error)
	Signup(ctx context.Context, input SignupInput) (*ChallengeResult, error)
	VerifyOTP(ctx context.Context, input VerifyOTPInput) (*TokenResult, error)
	ResendOTP(ctx context.Context, email string) (*ChallengeResult, error)
	SocialLogin(ctx context.Context, input SocialLoginInput) (*TokenResult, error)
}

// UserProvider exposes the user read path to HTTP adapters.
type UserProvider interface {
	GetByID(ctx context.Context, id string) (*PublicUser, error)
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(v *Vouch) error
}
