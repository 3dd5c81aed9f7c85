package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-dashboard/config"
	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/payment"
	"github.com/fekuna/omnipos-dashboard/internal/subscription"
	"github.com/fekuna/omnipos-dashboard/internal/subscription/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/apperror"
	"github.com/fekuna/omnipos-dashboard/pkg/database"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const testReference = "test"

type subscriptionUseCase struct {
	repo     subscription.Repository
	provider subscription.Provider
	tx       database.Transactor
	cfg      config.SubscriptionConfig
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewSubscriptionUseCase(
	repo subscription.Repository,
	provider subscription.Provider,
	tx database.Transactor,
	cfg config.SubscriptionConfig,
	log logger.ZapLogger,
) subscription.UseCase {
	return &subscriptionUseCase{
		repo:     repo,
		provider: provider,
		tx:       tx,
		cfg:      cfg,
		logger:   log,
		now:      time.Now,
	}
}

func (uc *subscriptionUseCase) CreateCheckout(ctx context.Context, userID string) (*dto.Checkout, error) {
	pref, err := uc.provider.CreatePreference(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.Checkout{
		CheckoutID: pref.ID,
		PublicKey:  uc.provider.PublicKey(),
		InitPoint:  pref.InitPoint,
	}, nil
}

// HandleNotification processes a provider webhook. Notifications that cannot
// confirm anything are ignored without error so the provider stops
// redelivering them.
func (uc *subscriptionUseCase) HandleNotification(ctx context.Context, n *dto.Notification) error {
	if n.Type != dto.NotificationPayment || n.PaymentID == "" {
		uc.logger.Debug("ignoring notification", zap.String("type", n.Type))
		return nil
	}

	p, err := uc.provider.GetPayment(ctx, n.PaymentID)
	if errors.Is(err, payment.ErrPaymentNotFound) {
		uc.logger.Warn("notification for unknown payment", zap.String("payment_id", n.PaymentID))
		return nil
	}
	if err != nil {
		return err
	}

	if !p.IsApproved() {
		uc.logger.Info("payment not approved", zap.String("payment_id", p.ID), zap.String("status", p.Status))
		return nil
	}
	if !model.ValidID(p.ExternalReference) {
		uc.logger.Warn("approved payment without user reference", zap.String("payment_id", p.ID))
		return nil
	}

	_, err = uc.Confirm(ctx, p.ExternalReference, p.ID)
	if errors.Is(err, subscription.ErrUnknownAccount) {
		uc.logger.Warn("approved payment for unknown account",
			zap.String("payment_id", p.ID),
			zap.String("user_id", p.ExternalReference),
		)
		return nil
	}
	return err
}

// HandleRedirect resolves the browser return from the hosted checkout. Only a
// provider-verified payment confirms; a bare approved status is left pending
// for the webhook.
func (uc *subscriptionUseCase) HandleRedirect(ctx context.Context, in *dto.RedirectInput) dto.RedirectOutcome {
	if !model.ValidID(in.UserID) {
		return dto.OutcomeError
	}
	if in.PaymentID == "" {
		return outcomeOf(in.Status)
	}

	p, err := uc.provider.GetPayment(ctx, in.PaymentID)
	if err != nil {
		uc.logger.Warn("redirect payment lookup failed", zap.String("payment_id", in.PaymentID), zap.Error(err))
		return dto.OutcomeError
	}
	if p.ExternalReference != in.UserID {
		uc.logger.Warn("redirect payment belongs to another user",
			zap.String("payment_id", p.ID),
			zap.String("user_id", in.UserID),
		)
		return dto.OutcomeError
	}
	if !p.IsApproved() {
		return outcomeOf(p.Status)
	}

	if _, err := uc.Confirm(ctx, in.UserID, p.ID); err != nil {
		uc.logger.Error("failed to confirm subscription", zap.String("user_id", in.UserID), zap.Error(err))
		return dto.OutcomeError
	}
	return dto.OutcomeSuccess
}

// outcomeOf maps an unverified status; approval still waits for the webhook.
func outcomeOf(status string) dto.RedirectOutcome {
	switch status {
	case payment.StatusApproved, payment.StatusPending, "in_process":
		return dto.OutcomePending
	default:
		return dto.OutcomeError
	}
}

// Confirm activates the user's subscription for one period from now. A
// repeated event id is a no-op, as is an id-less confirmation for a user
// who is already entitled.
func (uc *subscriptionUseCase) Confirm(ctx context.Context, userID, eventID string) (*model.Subscription, error) {
	var out *model.Subscription
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		now := uc.now()

		if eventID != "" {
			fresh, err := uc.repo.RecordEvent(ctx, &model.PaymentEvent{
				EventID:     eventID,
				UserID:      userID,
				Status:      payment.StatusApproved,
				ProcessedAt: now,
			})
			if err != nil {
				return err
			}
			if !fresh {
				uc.logger.Info("duplicate payment confirmation", zap.String("event_id", eventID))
				out, err = uc.repo.FindByUserID(ctx, userID)
				return err
			}
		} else {
			current, err := uc.repo.FindByUserID(ctx, userID)
			if err != nil {
				return err
			}
			if current.IsEntitled(now) {
				out = current
				return nil
			}
		}

		s := &model.Subscription{
			BaseModel:         model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			UserID:            userID,
			Status:            model.SubscriptionActive,
			CurrentPeriodEnd:  now.AddDate(0, 0, uc.cfg.PeriodDays),
			ProviderReference: eventID,
		}
		if err := uc.repo.Upsert(ctx, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("subscription confirmed",
		zap.String("user_id", userID),
		zap.String("event_id", eventID),
		zap.Time("period_end", out.CurrentPeriodEnd),
	)
	return out, nil
}

func (uc *subscriptionUseCase) Check(ctx context.Context, userID string) (*dto.CheckResult, error) {
	s, err := uc.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.IsEntitled(uc.now()) {
		return &dto.CheckResult{HasActiveSubscription: false}, nil
	}
	return &dto.CheckResult{HasActiveSubscription: true, Subscription: s}, nil
}

func (uc *subscriptionUseCase) IsEntitled(ctx context.Context, userID string) (bool, error) {
	s, err := uc.repo.FindByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.IsEntitled(uc.now()), nil
}

func (uc *subscriptionUseCase) CreateTest(ctx context.Context, userID string) (*model.Subscription, error) {
	if !uc.cfg.EnableTestCreate {
		return nil, subscription.ErrTestDisabled
	}
	if userID == "" {
		return nil, apperror.Invalid("user id is required")
	}

	now := uc.now()
	s := &model.Subscription{
		BaseModel:         model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:            userID,
		Status:            model.SubscriptionActive,
		CurrentPeriodEnd:  now.AddDate(0, 0, uc.cfg.PeriodDays),
		ProviderReference: testReference,
	}
	if err := uc.repo.Upsert(ctx, s); err != nil {
		return nil, err
	}
	uc.logger.Warn("test subscription created", zap.String("user_id", userID))
	return s, nil
}
