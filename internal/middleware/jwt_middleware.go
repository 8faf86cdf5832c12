package middleware

import (
	"strings"

	"tunestream/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware gating every protected route. It
// extracts the bearer token, verifies it, and attaches the decoded
// identity to the request. A header that does not split into a
// "<scheme> <token>" pair gets the same generic rejection as a token
// that fails verification.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No token provided",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		// Downstream handlers trust this identity as-is; the user row
		// is not re-fetched per request.
		c.Locals("user_id", claims.UserID)
		c.Locals("email", claims.Email)

		return c.Next()
	}
}

// UserID returns the authenticated user's id attached by AuthRequired.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("user_id").(uint)
	return id
}
