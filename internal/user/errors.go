package user

import "github.com/fekuna/omnipos-dashboard/pkg/apperror"

var (
	ErrEmailTaken        = apperror.Conflict("email_taken", "email already registered")
	ErrInvalidLogin      = apperror.Unauthorized("invalid_login", "invalid email or password")
	ErrUserNotFound      = apperror.NotFound("user_not_found", "user not found")
	ErrInvalidResetToken = apperror.Validation("invalid_reset_token", "reset token is invalid or expired")
	ErrMailDelivery      = apperror.External("mail_delivery_failed", "could not send email")
)
