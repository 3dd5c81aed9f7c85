package subscription

import (
	"github.com/fekuna/omnipos-dashboard/internal/auth"
	"github.com/gofiber/fiber/v2"
)

// RequireSubscription rejects callers without an entitled subscription.
// It must run after the auth middleware. When required is false it is a
// pass-through.
func RequireSubscription(uc UseCase, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !required {
			return c.Next()
		}
		ok, err := uc.IsEntitled(c.UserContext(), auth.UserID(c))
		if err != nil {
			return err
		}
		if !ok {
			return ErrSubscriptionRequired
		}
		return c.Next()
	}
}
