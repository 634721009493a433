package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/ameblo/vouch/core"
	"github.com/ameblo/vouch/pkg/crypto"
)

const (
	DefaultChallengeTTL = 5 * time.Minute

	minPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService orchestrates the OTP login, signup, social-login, verification,
// and resend flows against the challenge store.
type AuthService struct {
	db           core.UserStorage
	challenges   core.ChallengeStore
	passwords    crypto.PasswordHandler
	tokens       core.TokenIssuer
	mailer       core.Mailer
	challengeTTL time.Duration

	now func() time.Time // injectable for tests
}

// Ensure AuthService implements AuthProvider
var _ core.AuthProvider = (*AuthService)(nil)

func NewAuthService(db core.UserStorage, challenges core.ChallengeStore, passwords crypto.PasswordHandler, tokens core.TokenIssuer, mailer core.Mailer, challengeTTL time.Duration) *AuthService {
	if challengeTTL <= 0 {
		challengeTTL = DefaultChallengeTTL
	}
	return &AuthService{
		db:           db,
		challenges:   challenges,
		passwords:    passwords,
		tokens:       tokens,
		mailer:       mailer,
		challengeTTL: challengeTTL,
		now:          time.Now,
	}
}

// Login checks the credentials and, when they hold, issues a login challenge:
// a fresh code is stored (replacing any pending challenge for the email) and
// mailed. The response is identical for an unknown email and a wrong
// password.
func (s *AuthService) Login(ctx context.Context, input core.LoginInput) (*core.ChallengeResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, core.ErrPasswordRequired
	}

	// Step 1: Find the user by email
	user, err := s.db.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Step 2: Verify the password. Social-login-only accounts have an empty
	// hash and can never pass a password check.
	if user.Password == "" {
		return nil, core.ErrInvalidCredentials
	}
	valid, err := s.passwords.Verify(input.Password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, core.ErrInvalidCredentials
	}

	// Step 3: Issue the challenge and send the code
	if err := s.issueChallenge(ctx, &core.Challenge{Email: input.Email}, core.OTPPurposeLogin); err != nil {
		return nil, err
	}

	return &core.ChallengeResult{Message: "OTP sent", Step: "verify_otp"}, nil
}

// Signup validates the input, checks the email is free, and issues a signup
// challenge carrying the hashed password and name. The user row is not
// created here - only on successful verification.
func (s *AuthService) Signup(ctx context.Context, input core.SignupInput) (*core.ChallengeResult, error) {
	// Step 1: Validate before any store access
	if !emailPattern.MatchString(input.Email) {
		return nil, core.ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return nil, core.ErrPasswordTooShort
	}
	if input.Name == "" {
		return nil, core.ErrNameRequired
	}

	// Step 2: Check if email already exists. Best-effort only; a concurrent
	// signup is caught by the store's unique constraint at verification time.
	existing, err := s.db.GetUserByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, core.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, core.ErrEmailInUse
	}

	// Step 3: Hash the password
	hashedPassword, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 4: Issue the challenge with the deferred signup data
	challenge := &core.Challenge{
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Name:         input.Name,
	}
	if err := s.issueChallenge(ctx, challenge, core.OTPPurposeSignup); err != nil {
		return nil, err
	}

	return &core.ChallengeResult{Message: "OTP sent", Step: "verify_otp"}, nil
}

// VerifyOTP consumes the pending challenge for the email. The challenge is
// deleted on the first attempt regardless of outcome, so a wrong code spends
// the one legitimate challenge and a fresh login/signup/resend is needed.
// A correct, unexpired code for a signup challenge creates the user row now;
// either way a session token is issued for the resulting user.
func (s *AuthService) VerifyOTP(ctx context.Context, input core.VerifyOTPInput) (*core.TokenResult, error) {
	// Step 1: Look up and consume the challenge
	challenge, err := s.challenges.Get(input.Email)
	if err != nil && !errors.Is(err, core.ErrChallengeNotFound) {
		return nil, fmt.Errorf("failed to read challenge: %w", err)
	}
	if challenge != nil {
		if err := s.challenges.Delete(input.Email); err != nil {
			return nil, fmt.Errorf("failed to consume challenge: %w", err)
		}
	}

	if challenge == nil || challenge.Code != input.OTP || challenge.Expired(s.now()) {
		return nil, core.ErrInvalidOrExpiredOTP
	}

	// Step 2: Find the user; a signup challenge creates the row now
	user, err := s.db.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if !errors.Is(err, core.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		if !challenge.IsSignup() {
			// Login challenge for a user that no longer exists
			return nil, core.ErrUserNotFound
		}

		user = &core.User{
			Name:     challenge.Name,
			Email:    challenge.Email,
			Password: challenge.PasswordHash,
		}
		if err := s.db.CreateUser(ctx, user); err != nil {
			// A concurrent duplicate surfaces here as the store's
			// uniqueness violation; report it, don't crash.
			return nil, fmt.Errorf("%w: %w", core.ErrUserCreationFailed, err)
		}
	}

	return s.issueToken(user)
}

// ResendOTP issues a fresh login-kind challenge for an existing user,
// replacing any pending one. It does not require a live challenge - it can
// be called at any time for an existing user.
func (s *AuthService) ResendOTP(ctx context.Context, email string) (*core.ChallengeResult, error) {
	if email == "" {
		return nil, core.ErrEmailRequired
	}

	if _, err := s.db.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.issueChallenge(ctx, &core.Challenge{Email: email}, core.OTPPurposeResend); err != nil {
		return nil, err
	}

	return &core.ChallengeResult{Message: "OTP resent"}, nil
}

// SocialLogin gets or creates the user for an email a federated provider has
// already verified out-of-band, and issues a session token immediately. No
// challenge is ever created on this path. Created accounts carry an empty
// password hash.
func (s *AuthService) SocialLogin(ctx context.Context, input core.SocialLoginInput) (*core.TokenResult, error) {
	user, err := s.db.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if !errors.Is(err, core.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}

		user = &core.User{
			Name:  input.Name,
			Email: input.Email,
		}
		if err := s.db.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrUserCreationFailed, err)
		}
	}

	return s.issueToken(user)
}

// issueChallenge generates a code, stores the challenge (overwriting any
// pending one for the email), and mails the code.
func (s *AuthService) issueChallenge(ctx context.Context, challenge *core.Challenge, purpose core.OTPPurpose) error {
	code, err := crypto.GenerateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	challenge.Code = code
	challenge.ExpiresAt = s.now().Add(s.challengeTTL)

	if err := s.challenges.Put(challenge.Email, challenge); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}

	if err := s.mailer.SendOTP(ctx, challenge.Email, code, purpose); err != nil {
		return fmt.Errorf("failed to send otp: %w", err)
	}

	return nil
}

func (s *AuthService) issueToken(user *core.User) (*core.TokenResult, error) {
	signed, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &core.TokenResult{
		Token: signed,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}
