package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ameblo/vouch/core"
	"github.com/ameblo/vouch/pkg/cache"
	"github.com/ameblo/vouch/pkg/crypto"
	"github.com/ameblo/vouch/pkg/token"
)

const testSecret = "test-secret-is-at-least-32-chars!"

type testAuth struct {
	service    *AuthService
	storage    *FakeUserStorage
	challenges *cache.MemoryChallengeStore
	mailer     *FakeMailer
	tokens     *token.JWT
	passwords  crypto.PasswordHandler
}

func newTestAuth() *testAuth {
	storage := NewFakeUserStorage()
	challenges := cache.NewMemoryChallengeStore(core.ChallengeStoreConfig{})
	mailer := NewFakeMailer()
	tokens := token.NewJWT(testSecret, time.Hour)
	passwords := crypto.NewArgon2()

	return &testAuth{
		service:    NewAuthService(storage, challenges, passwords, tokens, mailer, DefaultChallengeTTL),
		storage:    storage,
		challenges: challenges,
		mailer:     mailer,
		tokens:     tokens,
		passwords:  passwords,
	}
}

// seedUser creates a user with a hashed password directly in storage.
func (ta *testAuth) seedUser(t *testing.T, email, password, name string) *core.User {
	t.Helper()
	user := &core.User{Name: name, Email: email}
	if password != "" {
		hash, err := ta.passwords.Hash(password)
		if err != nil {
			t.Fatalf("seed hash: %v", err)
		}
		user.Password = hash
	}
	if err := ta.storage.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// Requirement: Login verifies credentials and issues an OTP challenge; the
// response is identical for unknown emails and wrong passwords.
func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		setup    func(*testAuth)
		wantErr  error
	}{
		{
			name:     "issues challenge for valid credentials",
			email:    "alice@example.com",
			password: "SecurePass123!",
			setup: func(ta *testAuth) {
				ta.seedUser(t, "alice@example.com", "SecurePass123!", "Alice")
			},
		},
		{
			name:     "returns error for empty email",
			email:    "",
			password: "SecurePass123!",
			wantErr:  core.ErrPasswordRequired,
		},
		{
			name:     "returns error for empty password",
			email:    "alice@example.com",
			password: "",
			wantErr:  core.ErrPasswordRequired,
		},
		{
			name:     "returns invalid credentials for unknown email",
			email:    "nobody@example.com",
			password: "SecurePass123!",
			wantErr:  core.ErrInvalidCredentials,
		},
		{
			name:     "returns invalid credentials for wrong password",
			email:    "alice@example.com",
			password: "WrongPass",
			setup: func(ta *testAuth) {
				ta.seedUser(t, "alice@example.com", "SecurePass123!", "Alice")
			},
			wantErr: core.ErrInvalidCredentials,
		},
		{
			name:     "returns invalid credentials for social-only account",
			email:    "social@example.com",
			password: "anything",
			setup: func(ta *testAuth) {
				ta.seedUser(t, "social@example.com", "", "Social Sam")
			},
			wantErr: core.ErrInvalidCredentials,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			ta := newTestAuth()
			if test.setup != nil {
				test.setup(ta)
			}

			// Act
			result, err := ta.service.Login(context.Background(), core.LoginInput{
				Email:    test.email,
				Password: test.password,
			})

			// Assert
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("Login() error = %v, want %v", err, test.wantErr)
				}
				if len(ta.mailer.Sent()) != 0 {
					t.Error("Login() should not send mail on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if result.Message != "OTP sent" || result.Step != "verify_otp" {
				t.Errorf("Login() result = %+v, want OTP sent / verify_otp", result)
			}
			code := ta.mailer.LastCode()
			if len(code) != 6 {
				t.Errorf("Login() mailed code %q, want 6 digits", code)
			}
			challenge, err := ta.challenges.Get(test.email)
			if err != nil {
				t.Fatalf("challenge not stored: %v", err)
			}
			if challenge.Code != code {
				t.Error("stored challenge code should match the mailed code")
			}
			if challenge.IsSignup() {
				t.Error("login challenge should not carry signup data")
			}
		})
	}
}

// Requirement: A second login for the same email overwrites the pending
// challenge, discarding the previous code even if still valid.
func TestAuthService_Login_OverwritesChallenge(t *testing.T) {
	// Arrange
	ta := newTestAuth()
	ta.seedUser(t, "alice@example.com", "SecurePass123!", "Alice")
	input := core.LoginInput{Email: "alice@example.com", Password: "SecurePass123!"}

	// Act
	if _, err := ta.service.Login(context.Background(), input); err != nil {
		t.Fatalf("first Login() error = %v", err)
	}
	first := ta.mailer.LastCode()
	if _, err := ta.service.Login(context.Background(), input); err != nil {
		t.Fatalf("second Login() error = %v", err)
	}
	second := ta.mailer.LastCode()

	// Assert
	challenge, err := ta.challenges.Get("alice@example.com")
	if err != nil {
		t.Fatalf("challenge not stored: %v", err)
	}
	if challenge.Code != second {
		t.Error("pending challenge should hold the latest code")
	}
	if first == second && ta.challenges.Len() != 1 {
		t.Error("only one challenge should remain per email")
	}
}

// Requirement: Signup validates input before any store access, rejects taken
// emails, and defers user creation to verification.
func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name    string
		input   core.SignupInput
		setup   func(*testAuth)
		wantErr error
	}{
		{
			name:  "issues signup challenge for valid input",
			input: core.SignupInput{Email: "bob@example.com", Password: "hunter22", Name: "Bob"},
		},
		{
			name:    "rejects malformed email",
			input:   core.SignupInput{Email: "not-an-email", Password: "hunter22", Name: "Bob"},
			wantErr: core.ErrInvalidEmail,
		},
		{
			name:    "rejects short password",
			input:   core.SignupInput{Email: "bob@example.com", Password: "five5", Name: "Bob"},
			wantErr: core.ErrPasswordTooShort,
		},
		{
			name:    "rejects empty name",
			input:   core.SignupInput{Email: "bob@example.com", Password: "hunter22", Name: ""},
			wantErr: core.ErrNameRequired,
		},
		{
			name:  "rejects taken email",
			input: core.SignupInput{Email: "alice@example.com", Password: "hunter22", Name: "Imposter"},
			setup: func(ta *testAuth) {
				ta.seedUser(t, "alice@example.com", "SecurePass123!", "Alice")
			},
			wantErr: core.ErrEmailInUse,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			ta := newTestAuth()
			if test.setup != nil {
				test.setup(ta)
			}
			before := ta.storage.Count()

			// Act
			result, err := ta.service.Signup(context.Background(), test.input)

			// Assert
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("Signup() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Signup() error = %v", err)
			}
			if result.Step != "verify_otp" {
				t.Errorf("Signup() step = %q, want verify_otp", result.Step)
			}
			if ta.storage.Count() != before {
				t.Error("Signup() must not create the user before verification")
			}
			challenge, err := ta.challenges.Get(test.input.Email)
			if err != nil {
				t.Fatalf("challenge not stored: %v", err)
			}
			if !challenge.IsSignup() {
				t.Error("signup challenge should carry deferred signup data")
			}
			if challenge.Name != test.input.Name {
				t.Errorf("challenge name = %q, want %q", challenge.Name, test.input.Name)
			}
		})
	}
}

// Requirement: verifying the correct OTP exactly once after signup creates a
// user whose stored password verifies against the original plaintext, and
// returns a session token bound to that user.
func TestAuthService_VerifyOTP_CompletesSignup(t *testing.T) {
	// Arrange
	ta := newTestAuth()
	ctx := context.Background()
	input := core.SignupInput{Email: "bob@example.com", Password: "hunter22", Name: "Bob"}
	if _, err := ta.service.Signup(ctx, input); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	// Act
	result, err := ta.service.VerifyOTP(ctx, core.VerifyOTPInput{
		Email: input.Email,
		OTP:   ta.mailer.LastCode(),
	})

	// Assert
	if err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}
	if result.Token == "" {
		t.Error("VerifyOTP() should return a token")
	}
	if result.Name != "Bob" || result.Email != "bob@example.com" {
		t.Errorf("VerifyOTP() result = %+v", result)
	}

	user, err := ta.storage.GetUserByEmail(ctx, input.Email)
	if err != nil {
		t.Fatalf("user was not created: %v", err)
	}
	if user.Name != input.Name {
		t.Errorf("user name = %q, want %q", user.Name, input.Name)
	}
	ok, err := ta.passwords.Verify(input.Password, user.Password)
	if err != nil || !ok {
		t.Errorf("stored password should verify against original plaintext (ok=%v err=%v)", ok, err)
	}

	claims, err := ta.tokens.Verify(result.Token)
	if err != nil {
		t.Fatalf("issued token should verify: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Errorf("token claims = %+v, want user %s/%s", claims, user.ID, user.Email)
	}
}

// Requirement: submitting any OTP with no pending challenge yields
// invalid-or-expired.
func TestAuthService_VerifyOTP_NoChallenge(t *testing.T) {
	ta := newTestAuth()

	_, err := ta.service.VerifyOTP(context.Background(), core.VerifyOTPInput{
		Email: "nobody@example.com",
		OTP:   "123456",
	})

	if !errors.Is(err, core.ErrInvalidOrExpiredOTP) {
		t.Fatalf("VerifyOTP() error = %v, want %v", err, core.ErrInvalidOrExpiredOTP)
	}
}

// Requirement: the challenge is consumed on the first attempt regardless of
// outcome - a wrong code followed by the correct one fails both times.
func TestAuthService_VerifyOTP_ConsumedOnFailure(t *testing.T) {
	// Arrange
	ta := newTestAuth()
	ctx := context.Background()
	ta.seedUser(t, "alice@example.com", "SecurePass123!", "Alice")
	if _, err := ta.service.Login(ctx, core.LoginInput{Email: "alice@example.com", Password: "SecurePass123!"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	code := ta.mailer.LastCode()
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	// Act + Assert
	if _, err := ta.service.VerifyOTP(ctx, core.VerifyOTPInput{Email: "alice@example.com", OTP: wrong}); !errors.Is(err, core.ErrInvalidOrExpiredOTP) {
		t.Fatalf("wrong code error = %v, want %v", err, core.ErrInvalidOrExpiredOTP)
	}
	if _, err := ta.service.VerifyOTP(ctx, core.VerifyOTPInput{Email: "alice@example.com", OTP: code}); !errors.Is(err, core.ErrInvalidOrExpiredOTP) {
		t.Fatalf("correct code after wrong attempt error = %v, want %v", err, core.ErrInvalidOrExpiredOTP)
	}
}

// Requirement: a challenge is rejected at or after exactly five minutes from
// issuance and accepted strictly before.
func TestAuthService_VerifyOTP_ExpiryBoundary(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr bool
	}{
		{name: "accepted strictly before expiry", elapsed: DefaultChallengeTTL - time.Second, wantErr: false},
		{name: "rejected at exactly the expiry instant", elapsed: DefaultChallengeTTL, wantErr: true},
		{name: "rejected after expiry", elapsed: DefaultChallengeTTL + time.Minute, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			ta := newTestAuth()
			ctx := context.Background()
			ta.seedUser(t, "alice@example.com", "SecurePass123!", "Alice")

			issuedAt := time.Now()
			ta.service.now = func() time.Time { return issuedAt }
			if _, err := ta.service.Login(ctx, core.LoginInput{Email: "alice@example.com", Password: "SecurePass123!"}); err != nil {
				t.Fatalf("Login() error = %v", err)
			}

			// Act
			ta.service.now = func() time.Time { return issuedAt.Add(test.elapsed) }
			_, err := ta.service.VerifyOTP(ctx, core.VerifyOTPInput{
				Email: "alice@example.com",
				OTP:   ta.mailer.LastCode(),
			})

			// Assert
			if test.wantErr {
				if !errors.Is(err, core.ErrInvalidOrExpiredOTP) {
					t.Fatalf("VerifyOTP() error = %v, want %v", err, core.ErrInvalidOrExpiredOTP)
				}
			} else if err != nil {
				t.Fatalf("VerifyOTP() error = %v", err)
			}
		})
	}
}

// Requirement: a uniqueness violation from a concurrent duplicate signup is
// surfaced as a handled creation failure, not a crash.
func TestAuthService_VerifyOTP_CreationRace(t *testing.T) {
	// Arrange
	ta := newTestAuth()
	ctx := context.Background()
	if _, err := ta.service.Signup(ctx, core.SignupInput{Email: "bob@example.com", Password: "hunter22", Name: "Bob"}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	ta.storage.SetCreateError(core.ErrEmailInUse)

	// Act
	_, err := ta.service.VerifyOTP(ctx, core.VerifyOTPInput{
		Email: "bob@example.com",
		OTP:   ta.mailer.LastCode(),
	})

	// Assert
	if !errors.Is(err, core.ErrUserCreationFailed) {
		t.Fatalf("VerifyOTP() error = %v, want %v", err, core.ErrUserCreationFailed)
	}
}

// Requirement: a login challenge whose user disappeared before verification
// reports user-not-found instead of minting a token for nobody.
func TestAuthService_VerifyOTP_UserGone(t *testing.T) {
	// Arrange
	ta := newTestAuth()
	ctx := context.Background()
	ta.seedUser(t, "alice@example.com", "SecurePass123!", "Alice")
	if _, err := ta.service.Login(ctx, core.LoginInput{Email: "alice@example.com", Password: "SecurePass123!"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	ta.storage.Delete("alice@example.com")

	// Act
	_, err := ta.service.VerifyOTP(ctx, core.VerifyOTPInput{
		Email: "alice@example.com",
		OTP:   ta.mailer.LastCode(),
	})

	// Assert
	if !errors.Is(err, core.ErrUserNotFound) {
		t.Fatalf("VerifyOTP() error = %v, want %v", err, core.ErrUserNotFound)
	}
}

// Requirement: two full login flows for the same email produce tokens bearing
// the same subject id and email.
func TestAuthService_Login_SameSubjectAcrossFlows(t *testing.T) {
	// Arrange
	ta := newTestAuth()
	ctx := context.Background()
	ta.seedUser(t, "alice@example.com", "SecurePass123!", "Alice")

	verify := func() *core.TokenClaims {
		t.Helper()
		if _, err := ta.service.Login(ctx, core.LoginInput{Email: "alice@example.com", Password: "SecurePass123!"}); err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		result, err := ta.service.VerifyOTP(ctx, core.VerifyOTPInput{Email: "alice@example.com", OTP: ta.mailer.LastCode()})
		if err != nil {
			t.Fatalf("VerifyOTP() error = %v", err)
		}
		claims, err := ta.tokens.Verify(result.Token)
		if err != nil {
			t.Fatalf("token verify: %v", err)
		}
		return claims
	}

	// Act
	first := verify()
	second := verify()

	// Assert
	if first.UserID != second.UserID || first.Email != second.Email {
		t.Errorf("token subjects differ: %+v vs %+v", first, second)
	}
}

// Requirement: ResendOTP works for existing users at any time, independent of
// a prior challenge, and issues a login-kind record.
func TestAuthService_ResendOTP(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		setup   func(*testAuth)
		wantErr error
	}{
		{
			name:  "resends for existing user without prior challenge",
			email: "alice@example.com",
			setup: func(ta *testAuth) {
				ta.seedUser(t, "alice@example.com", "SecurePass123!", "Alice")
			},
		},
		{
			name:    "returns error for empty email",
			email:   "",
			wantErr: core.ErrEmailRequired,
		},
		{
			name:    "returns not found for unknown user",
			email:   "nobody@example.com",
			wantErr: core.ErrUserNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			ta := newTestAuth()
			if test.setup != nil {
				test.setup(ta)
			}

			// Act
			result, err := ta.service.ResendOTP(context.Background(), test.email)

			// Assert
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("ResendOTP() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResendOTP() error = %v", err)
			}
			if result.Message != "OTP resent" {
				t.Errorf("ResendOTP() message = %q", result.Message)
			}
			challenge, err := ta.challenges.Get(test.email)
			if err != nil {
				t.Fatalf("challenge not stored: %v", err)
			}
			if challenge.IsSignup() {
				t.Error("resent challenge should be login-kind")
			}
		})
	}
}

// Requirement: ResendOTP overwrites a pending signup challenge with a
// password-less login-kind record.
func TestAuthService_ResendOTP_OverwritesKind(t *testing.T) {
	// Arrange
	ta := newTestAuth()
	ctx := context.Background()
	ta.seedUser(t, "alice@example.com", "SecurePass123!", "Alice")
	// Force a signup-looking record into the store to prove the overwrite.
	_ = ta.challenges.Put("alice@example.com", &core.Challenge{
		Email:        "alice@example.com",
		Code:         "111111",
		ExpiresAt:    time.Now().Add(time.Minute),
		PasswordHash: "stale-hash",
		Name:         "Stale",
	})

	// Act
	if _, err := ta.service.ResendOTP(ctx, "alice@example.com"); err != nil {
		t.Fatalf("ResendOTP() error = %v", err)
	}

	// Assert
	challenge, err := ta.challenges.Get("alice@example.com")
	if err != nil {
		t.Fatalf("challenge not stored: %v", err)
	}
	if challenge.IsSignup() {
		t.Error("resend must replace the record with a login-kind challenge")
	}
	if challenge.Code == "111111" {
		t.Error("resend must generate a fresh code")
	}
}

// Requirement: a mail delivery failure surfaces as an error from the flow
// that triggered it.
func TestAuthService_Login_MailFailure(t *testing.T) {
	// Arrange
	ta := newTestAuth()
	ta.seedUser(t, "alice@example.com", "SecurePass123!", "Alice")
	ta.mailer.SetSendError(errors.New("smtp: connection refused"))

	// Act
	_, err := ta.service.Login(context.Background(), core.LoginInput{
		Email:    "alice@example.com",
		Password: "SecurePass123!",
	})

	// Assert
	if err == nil {
		t.Fatal("Login() should fail when the mailer fails")
	}
}

// Requirement: every delivery records the purpose of the flow that sent it.
func TestAuthService_MailPurposes(t *testing.T) {
	// Arrange
	ta := newTestAuth()
	ctx := context.Background()
	ta.seedUser(t, "alice@example.com", "SecurePass123!", "Alice")

	// Act
	if _, err := ta.service.Login(ctx, core.LoginInput{Email: "alice@example.com", Password: "SecurePass123!"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err := ta.service.ResendOTP(ctx, "alice@example.com"); err != nil {
		t.Fatalf("ResendOTP() error = %v", err)
	}
	if _, err := ta.service.Signup(ctx, core.SignupInput{Email: "bob@example.com", Password: "hunter22", Name: "Bob"}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	// Assert
	sent := ta.mailer.Sent()
	if len(sent) != 3 {
		t.Fatalf("got %d deliveries, want 3", len(sent))
	}
	want := []core.OTPPurpose{core.OTPPurposeLogin, core.OTPPurposeResend, core.OTPPurposeSignup}
	for i, purpose := range want {
		if sent[i].Purpose != purpose {
			t.Errorf("delivery %d purpose = %q, want %q", i, sent[i].Purpose, purpose)
		}
	}
}

// Requirement: social login is idempotent on user identity and never creates
// two rows for one email; no challenge is involved.
func TestAuthService_SocialLogin(t *testing.T) {
	// Arrange
	ta := newTestAuth()
	ctx := context.Background()
	input := core.SocialLoginInput{Email: "sam@example.com", Name: "Social Sam"}

	// Act
	first, err := ta.service.SocialLogin(ctx, input)
	if err != nil {
		t.Fatalf("first SocialLogin() error = %v", err)
	}
	second, err := ta.service.SocialLogin(ctx, input)
	if err != nil {
		t.Fatalf("second SocialLogin() error = %v", err)
	}

	// Assert
	if ta.storage.Count() != 1 {
		t.Fatalf("SocialLogin() created %d users, want 1", ta.storage.Count())
	}
	firstClaims, err := ta.tokens.Verify(first.Token)
	if err != nil {
		t.Fatalf("first token verify: %v", err)
	}
	secondClaims, err := ta.tokens.Verify(second.Token)
	if err != nil {
		t.Fatalf("second token verify: %v", err)
	}
	if firstClaims.UserID != secondClaims.UserID {
		t.Error("social login should return tokens for the same underlying user")
	}

	user, err := ta.storage.GetUserByEmail(ctx, input.Email)
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if user.Password != "" {
		t.Error("social-login account should carry an empty password hash")
	}
	if _, err := ta.challenges.Get(input.Email); !errors.Is(err, core.ErrChallengeNotFound) {
		t.Error("social login must never create a challenge")
	}
}
