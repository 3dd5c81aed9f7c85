package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/fekuna/omnipos-dashboard/internal/auth"
	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/user"
	"github.com/fekuna/omnipos-dashboard/internal/user/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/apperror"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/fekuna/omnipos-dashboard/pkg/mailer"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type userUseCase struct {
	repo       user.Repository
	tokens     *auth.TokenManager
	mailer     mailer.Mailer
	appURL     string
	bcryptCost int
	logger     logger.ZapLogger
	now        func() time.Time
}

func NewUserUseCase(repo user.Repository, tokens *auth.TokenManager, m mailer.Mailer, appURL string, log logger.ZapLogger) user.UseCase {
	return &userUseCase{
		repo:       repo,
		tokens:     tokens,
		mailer:     m,
		appURL:     appURL,
		bcryptCost: bcrypt.DefaultCost,
		logger:     log,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperror.Invalid(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}

func (uc *userUseCase) Register(ctx context.Context, input *dto.RegisterInput) (*model.User, error) {
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)

	if name == "" {
		return nil, apperror.Invalid("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.Invalid("email is invalid")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := uc.now()
	u := &model.User{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		BusinessName: strings.TrimSpace(input.BusinessName),
	}

	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", u.ID))
	return u, nil
}

func (uc *userUseCase) Login(ctx context.Context, input *dto.LoginInput) (*dto.LoginResult, error) {
	u, err := uc.repo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrInvalidLogin
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
		return nil, user.ErrInvalidLogin
	}

	token, err := uc.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResult{Token: token, User: u}, nil
}

func (uc *userUseCase) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	u, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (uc *userUseCase) UpdateProfile(ctx context.Context, input *dto.UpdateProfileInput) (*model.User, error) {
	u, err := uc.GetProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.Invalid("name is required")
		}
		u.Name = name
	}
	if input.BusinessName != nil {
		u.BusinessName = strings.TrimSpace(*input.BusinessName)
	}
	u.UpdatedAt = uc.now()

	if err := uc.repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *userUseCase) ForgotPassword(ctx context.Context, email string) error {
	u, err := uc.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if u == nil {
		return user.ErrUserNotFound
	}

	token, hash, err := auth.NewResetToken()
	if err != nil {
		return err
	}
	if err := uc.repo.SetResetToken(ctx, u.ID, hash, uc.now().Add(auth.ResetTokenTTL)); err != nil {
		return err
	}

	link := uc.appURL + "/reset-password?token=" + url.QueryEscape(token)
	body := fmt.Sprintf("Hello %s,\n\nUse the link below to choose a new password. It expires in one hour.\n\n%s\n\nIf you did not ask for this, ignore this email.\n", u.Name, link)
	if err := uc.mailer.Send(ctx, u.Email, "Reset your password", body); err != nil {
		uc.logger.Error("failed to send reset email", zap.String("user_id", u.ID), zap.Error(err))
		return user.ErrMailDelivery.Wrap(err)
	}
	return nil
}

func (uc *userUseCase) ResetPassword(ctx context.Context, input *dto.ResetPasswordInput) error {
	if input.Token == "" {
		return user.ErrInvalidResetToken
	}
	if err := validatePassword(input.Password); err != nil {
		return err
	}

	u, err := uc.repo.FindByResetTokenHash(ctx, auth.HashResetToken(input.Token))
	if err != nil {
		return err
	}
	if u == nil || u.ResetTokenExpiresAt == nil || !u.ResetTokenExpiresAt.After(uc.now()) {
		return user.ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = uc.repo.UpdatePassword(ctx, u.ID, string(hash))
	if errors.Is(err, user.ErrUserNotFound) {
		return user.ErrInvalidResetToken
	}
	return err
}
