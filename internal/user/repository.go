package user

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-dashboard/internal/model"
)

type Repository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, u *model.User) error

	SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	FindByResetTokenHash(ctx context.Context, tokenHash string) (*model.User, error)
	// UpdatePassword stores the new hash and clears any reset token.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}
