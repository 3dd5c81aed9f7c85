package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-dashboard/config"
	"github.com/fekuna/omnipos-dashboard/internal/model"
	"github.com/fekuna/omnipos-dashboard/internal/payment"
	"github.com/fekuna/omnipos-dashboard/internal/subscription"
	"github.com/fekuna/omnipos-dashboard/internal/subscription/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/apperror"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userID      = "5b6f0c6e-7d1a-4a43-9c55-0d4c1f2b7a11"
	deletedUser = "0f1e2d3c-4b5a-4978-8a6b-5c4d3e2f1a00"
)

// fakeRepo rejects writes for accounts in gone, the way the user foreign
// keys do.
type fakeRepo struct {
	mu     sync.Mutex
	subs   map[string]model.Subscription
	events map[string]model.PaymentEvent
	gone   map[string]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		subs:   map[string]model.Subscription{},
		events: map[string]model.PaymentEvent{},
		gone:   map[string]bool{deletedUser: true},
	}
}

func (r *fakeRepo) FindByUserID(_ context.Context, userID string) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeRepo) Upsert(_ context.Context, s *model.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gone[s.UserID] {
		return subscription.ErrUnknownAccount
	}
	if existing, ok := r.subs[s.UserID]; ok {
		s.ID, s.CreatedAt = existing.ID, existing.CreatedAt
	}
	r.subs[s.UserID] = *s
	return nil
}

func (r *fakeRepo) RecordEvent(_ context.Context, e *model.PaymentEvent) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gone[e.UserID] {
		return false, subscription.ErrUnknownAccount
	}
	if _, ok := r.events[e.EventID]; ok {
		return false, nil
	}
	r.events[e.EventID] = *e
	return true, nil
}

type fakeProvider struct {
	payments map[string]*payment.Payment
	err      error
}

func (p *fakeProvider) PublicKey() string { return "pub" }

func (p *fakeProvider) CreatePreference(_ context.Context, userID string) (*payment.Preference, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &payment.Preference{ID: "pref-" + userID, InitPoint: "https://checkout"}, nil
}

func (p *fakeProvider) GetPayment(_ context.Context, id string) (*payment.Payment, error) {
	if p.err != nil {
		return nil, p.err
	}
	pay, ok := p.payments[id]
	if !ok {
		return nil, payment.ErrPaymentNotFound
	}
	return pay, nil
}

type passTx struct{}

func (passTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func newTestUseCase(cfg config.SubscriptionConfig) (*subscriptionUseCase, *fakeRepo, *fakeProvider, *clock) {
	repo := newFakeRepo()
	provider := &fakeProvider{payments: map[string]*payment.Payment{}}
	clk := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	if cfg.PeriodDays == 0 {
		cfg.PeriodDays = 30
	}
	uc := NewSubscriptionUseCase(repo, provider, passTx{}, cfg, logger.NewNop()).(*subscriptionUseCase)
	uc.now = clk.now
	return uc, repo, provider, clk
}

func TestConfirm_DedupesByEvent(t *testing.T) {
	uc, repo, _, clk := newTestUseCase(config.SubscriptionConfig{})
	start := clk.t

	s, err := uc.Confirm(context.Background(), userID, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionActive, s.Status)
	assert.Equal(t, start.AddDate(0, 0, 30), s.CurrentPeriodEnd)

	clk.t = clk.t.Add(48 * time.Hour)
	s, err = uc.Confirm(context.Background(), userID, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, 30), s.CurrentPeriodEnd)
	assert.Len(t, repo.events, 1)

	// a new payment starts a new period from its processing time
	s, err = uc.Confirm(context.Background(), userID, "pay-2")
	require.NoError(t, err)
	assert.Equal(t, clk.t.AddDate(0, 0, 30), s.CurrentPeriodEnd)
}

func TestConfirm_WithoutEventID(t *testing.T) {
	uc, _, _, clk := newTestUseCase(config.SubscriptionConfig{})

	first, err := uc.Confirm(context.Background(), userID, "")
	require.NoError(t, err)

	clk.t = clk.t.Add(time.Hour)
	again, err := uc.Confirm(context.Background(), userID, "")
	require.NoError(t, err)
	assert.Equal(t, first.CurrentPeriodEnd, again.CurrentPeriodEnd)

	clk.t = first.CurrentPeriodEnd
	renewed, err := uc.Confirm(context.Background(), userID, "")
	require.NoError(t, err)
	assert.Equal(t, clk.t.AddDate(0, 0, 30), renewed.CurrentPeriodEnd)
}

func TestHandleNotification(t *testing.T) {
	uc, repo, provider, _ := newTestUseCase(config.SubscriptionConfig{})
	provider.payments["approved"] = &payment.Payment{ID: "approved", Status: payment.StatusApproved, ExternalReference: userID}
	provider.payments["pending"] = &payment.Payment{ID: "pending", Status: payment.StatusPending, ExternalReference: userID}
	provider.payments["orphan"] = &payment.Payment{ID: "orphan", Status: payment.StatusApproved, ExternalReference: "not-a-user"}
	provider.payments["stale"] = &payment.Payment{ID: "stale", Status: payment.StatusApproved, ExternalReference: deletedUser}

	ignored := []*dto.Notification{
		{Type: "merchant_order", PaymentID: "approved"},
		{Type: dto.NotificationPayment},
		{Type: dto.NotificationPayment, PaymentID: "unknown"},
		{Type: dto.NotificationPayment, PaymentID: "pending"},
		{Type: dto.NotificationPayment, PaymentID: "orphan"},
		{Type: dto.NotificationPayment, PaymentID: "stale"},
	}
	for _, n := range ignored {
		require.NoError(t, uc.HandleNotification(context.Background(), n))
	}
	assert.Empty(t, repo.subs)

	require.NoError(t, uc.HandleNotification(context.Background(), &dto.Notification{Type: dto.NotificationPayment, PaymentID: "approved"}))
	ok, err := uc.IsEntitled(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, ok)

	provider.err = payment.ErrProviderUnavailable
	err = uc.HandleNotification(context.Background(), &dto.Notification{Type: dto.NotificationPayment, PaymentID: "approved"})
	assert.Equal(t, apperror.KindExternal, apperror.KindOf(err))
}

func TestHandleRedirect(t *testing.T) {
	uc, repo, provider, _ := newTestUseCase(config.SubscriptionConfig{})
	provider.payments["p1"] = &payment.Payment{ID: "p1", Status: payment.StatusApproved, ExternalReference: userID}
	provider.payments["p2"] = &payment.Payment{ID: "p2", Status: payment.StatusRejected, ExternalReference: userID}
	provider.payments["p3"] = &payment.Payment{ID: "p3", Status: payment.StatusApproved, ExternalReference: deletedUser}

	tests := []struct {
		name string
		in   dto.RedirectInput
		want dto.RedirectOutcome
	}{
		{"unverified approval waits", dto.RedirectInput{Status: "approved", UserID: userID}, dto.OutcomePending},
		{"failure", dto.RedirectInput{Status: "failure", UserID: userID}, dto.OutcomeError},
		{"missing user", dto.RedirectInput{Status: "approved", PaymentID: "p1"}, dto.OutcomeError},
		{"malformed user", dto.RedirectInput{Status: "approved", UserID: "u-1"}, dto.OutcomeError},
		{"deleted account", dto.RedirectInput{Status: "approved", UserID: deletedUser, PaymentID: "p3"}, dto.OutcomeError},
		{"another user's payment", dto.RedirectInput{Status: "approved", UserID: "someone", PaymentID: "p1"}, dto.OutcomeError},
		{"rejected payment", dto.RedirectInput{Status: "approved", UserID: userID, PaymentID: "p2"}, dto.OutcomeError},
		{"unknown payment", dto.RedirectInput{Status: "approved", UserID: userID, PaymentID: "p9"}, dto.OutcomeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uc.HandleRedirect(context.Background(), &tt.in))
		})
	}
	assert.Empty(t, repo.subs)

	got := uc.HandleRedirect(context.Background(), &dto.RedirectInput{Status: "approved", UserID: userID, PaymentID: "p1"})
	assert.Equal(t, dto.OutcomeSuccess, got)
	assert.Contains(t, repo.subs, userID)
}

func TestCheck(t *testing.T) {
	uc, _, _, clk := newTestUseCase(config.SubscriptionConfig{})

	res, err := uc.Check(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, res.HasActiveSubscription)
	assert.Nil(t, res.Subscription)

	s, err := uc.Confirm(context.Background(), userID, "pay-1")
	require.NoError(t, err)

	res, err = uc.Check(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, res.HasActiveSubscription)
	require.NotNil(t, res.Subscription)

	// period end must be strictly in the future
	clk.t = s.CurrentPeriodEnd
	res, err = uc.Check(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, res.HasActiveSubscription)
}

func TestCreateTest(t *testing.T) {
	uc, _, _, _ := newTestUseCase(config.SubscriptionConfig{})
	_, err := uc.CreateTest(context.Background(), userID)
	assert.ErrorIs(t, err, subscription.ErrTestDisabled)

	uc, _, _, clk := newTestUseCase(config.SubscriptionConfig{EnableTestCreate: true})
	s, err := uc.CreateTest(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, clk.t.AddDate(0, 0, 30), s.CurrentPeriodEnd)
	assert.Equal(t, testReference, s.ProviderReference)
}

func TestCreateCheckout(t *testing.T) {
	uc, _, provider, _ := newTestUseCase(config.SubscriptionConfig{})

	out, err := uc.CreateCheckout(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "pref-"+userID, out.CheckoutID)
	assert.Equal(t, "pub", out.PublicKey)

	provider.err = payment.ErrProviderUnavailable
	_, err = uc.CreateCheckout(context.Background(), userID)
	assert.ErrorIs(t, err, payment.ErrProviderUnavailable)
}
