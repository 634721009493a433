package fiber

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/ameblo/vouch"
)

// handleLogin returns a handler for the login endpoint
func handleLogin(auth vouch.AuthProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input vouch.LoginInput
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		result, err := auth.Login(c.Context(), input)
		if err != nil {
			return handleAuthError(c, err)
		}

		return c.Status(http.StatusOK).JSON(result)
	}
}

// handleSignup returns a handler for the signup endpoint
func handleSignup(auth vouch.AuthProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input vouch.SignupInput
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		result, err := auth.Signup(c.Context(), input)
		if err != nil {
			return handleAuthError(c, err)
		}

		return c.Status(http.StatusOK).JSON(result)
	}
}

// handleSocialLogin returns a handler for the social-login endpoint
func handleSocialLogin(auth vouch.AuthProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input vouch.SocialLoginInput
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		result, err := auth.SocialLogin(c.Context(), input)
		if err != nil {
			return handleAuthError(c, err)
		}

		return c.Status(http.StatusOK).JSON(result)
	}
}

// handleVerifyOTP returns a handler for the verify-otp endpoint
func handleVerifyOTP(auth vouch.AuthProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input vouch.VerifyOTPInput
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		result, err := auth.VerifyOTP(c.Context(), input)
		if err != nil {
			return handleAuthError(c, err)
		}

		return c.Status(http.StatusOK).JSON(result)
	}
}

// handleResendOTP returns a handler for the resend-otp endpoint
func handleResendOTP(auth vouch.AuthProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input struct {
			Email string `json:"email"`
		}
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		result, err := auth.ResendOTP(c.Context(), input.Email)
		if err != nil {
			return handleAuthError(c, err)
		}

		return c.Status(http.StatusOK).JSON(result)
	}
}

// handleGetUser returns a handler for the protected user read endpoint.
// The raw path parameter goes straight to the lookup; an id that matches
// nothing is a plain 404.
func handleGetUser(users vouch.UserProvider) fiber.Handler {
	return func(c fiber.Ctx) error {
		user, err := users.GetByID(c.Context(), c.Params("id"))
		if err != nil {
			return handleAuthError(c, err)
		}

		return c.Status(http.StatusOK).JSON(user)
	}
}

// handleAuthError maps flow errors to HTTP responses. Unmapped errors are
// logged server-side and answered with a generic 500 so no internal detail
// leaks to the caller.
func handleAuthError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// mapErrorToStatus maps vouch error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, vouch.ErrEmailRequired),
		errors.Is(err, vouch.ErrPasswordRequired),
		errors.Is(err, vouch.ErrNameRequired),
		errors.Is(err, vouch.ErrInvalidEmail),
		errors.Is(err, vouch.ErrPasswordTooShort),
		errors.Is(err, vouch.ErrInvalidCredentials),
		errors.Is(err, vouch.ErrEmailInUse),
		errors.Is(err, vouch.ErrInvalidOrExpiredOTP):
		return http.StatusBadRequest

	case errors.Is(err, vouch.ErrMissingAuthHeader),
		errors.Is(err, vouch.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, vouch.ErrUserNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
