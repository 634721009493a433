package fiber

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/ameblo/vouch"
)

// Locals keys set by RequireAuth for downstream handlers.
const (
	LocalUserID    = "userID"
	LocalUserEmail = "userEmail"
)

// RequireAuth creates a Fiber middleware that validates the bearer token
// and stores the subject's id and email in the context for downstream
// handlers.
func (a *Adapter) RequireAuth(tokens vouch.TokenIssuer) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": vouch.ErrMissingAuthHeader.Error(),
			})
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": vouch.ErrInvalidToken.Error(),
			})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserEmail, claims.Email)

		return c.Next()
	}
}

// extractToken pulls the bearer token out of the Authorization header.
// Returns "" when the header or the "Bearer " prefix is absent.
func extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[len("Bearer "):]
	}
	return ""
}
