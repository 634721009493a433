package core

import "errors"

// Authentication errors
var (
	ErrEmailInUse         = errors.New("email already in use")  // 400 Bad Request
	ErrUserNotFound       = errors.New("user not found")        // 404 Not Found
	ErrInvalidCredentials = errors.New("invalid credentials")   // 400 - same for unknown email and wrong password
	ErrUserCreationFailed = errors.New("failed to create user") // 500 Internal Server Error
)

// Challenge errors
var (
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired OTP") // 400
	ErrChallengeNotFound   = errors.New("no pending challenge")
)

// Token errors
var (
	ErrMissingAuthHeader = errors.New("authorization token required") // 401
	ErrInvalidToken      = errors.New("invalid or expired token")     // 401
)

// Validation errors (client input)
var (
	ErrEmailRequired    = errors.New("email is required")                           // 400
	ErrPasswordRequired = errors.New("email and password are required")             // 400
	ErrNameRequired     = errors.New("name is required")                            // 400
	ErrInvalidEmail     = errors.New("invalid email format")                        // 400
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long") // 400
)

// Config errors (server-side configuration)
var (
	ErrDBAdapterRequired   = errors.New("database adapter is required") // 500
	ErrHTTPAdapterRequired = errors.New("http adapter is required")     // 500
	ErrMailerRequired      = errors.New("mailer is required")           // 500
	ErrSecretRequired      = errors.New("secret is required")           // 500
	ErrSecretTooShort      = errors.New("secret too short")             // 500
)
