package user

import (
	"context"

	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/user/dto"
)

type UseCase interface {
	Register(ctx context.Context, input *dto.RegisterInput) (*model.User, error)
	Login(ctx context.Context, input *dto.LoginInput) (*dto.LoginResult, error)
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, input *dto.UpdateProfileInput) (*model.User, error)

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input *dto.ResetPasswordInput) error
}
