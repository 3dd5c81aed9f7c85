package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Middleware rejects requests without a valid bearer token and exposes the
// user id through UserID and GetUserID.
func Middleware(tm *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ErrInvalidCredential
		}

		userID, err := tm.Authenticate(strings.TrimSpace(token))
		if err != nil {
			return err
		}

		SetUserID(c, userID)
		return c.Next()
	}
}
