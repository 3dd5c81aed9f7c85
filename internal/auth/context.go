package auth

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/pkg/apperror"
	"github.com/gofiber/fiber/v2"
)

const localsUserID = "user_id"

type ctxKey struct{}

// WithUserID returns ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// GetUserID returns the authenticated user id from ctx, or "" if none.
func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(ctxKey{}).(string); ok {
		return val
	}
	return ""
}

// SetUserID records userID as the authenticated user of the request.
func SetUserID(c *fiber.Ctx, userID string) {
	c.Locals(localsUserID, userID)
	c.SetUserContext(WithUserID(c.UserContext(), userID))
}

// UserID returns the id stored by Middleware on the fiber context.
func UserID(c *fiber.Ctx) string {
	if val, ok := c.Locals(localsUserID).(string); ok {
		return val
	}
	return ""
}

var ErrIDMismatch = apperror.Validation("id_mismatch", "request refers to another user")

// EnsureSelf accepts an optional user id sent by the client, which must be
// the authenticated user.
func EnsureSelf(c *fiber.Ctx, claimed string) error {
	if claimed != "" && claimed != UserID(c) {
		return ErrIDMismatch
	}
	return nil
}
