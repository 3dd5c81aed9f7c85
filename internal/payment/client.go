package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fekuna/omnipos-dashboard/config"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Client talks to the hosted checkout REST API. Every call goes through a
// circuit breaker; client errors (4xx) do not count as breaker failures.
type Client struct {
	cfg     config.PaymentConfig
	appURL  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  logger.ZapLogger
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider responded %d: %s", e.code, e.body)
}

func NewClient(cfg config.PaymentConfig, appURL string, log logger.ZapLogger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "payment-provider",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var se *statusError
			return err == nil || (errors.As(err, &se) && se.code < http.StatusInternalServerError)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Client{
		cfg:     cfg,
		appURL:  appURL,
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		logger:  log,
	}
}

func (c *Client) PublicKey() string {
	return c.cfg.PublicKey
}

type preferenceItem struct {
	Title      string      `json:"title"`
	Quantity   int         `json:"quantity"`
	UnitPrice  json.Number `json:"unit_price"`
	CurrencyID string      `json:"currency_id"`
}

type backURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type preferenceRequest struct {
	Items             []preferenceItem `json:"items"`
	ExternalReference string           `json:"external_reference"`
	BackURLs          backURLs         `json:"back_urls"`
	NotificationURL   string           `json:"notification_url"`
	AutoReturn        string           `json:"auto_return"`
}

// CreatePreference opens a checkout for the subscription plan tagged with the user id.
func (c *Client) CreatePreference(ctx context.Context, userID string) (*Preference, error) {
	redirect := c.appURL + "/api/handle-subscription?user_id=" + url.QueryEscape(userID)
	req := preferenceRequest{
		Items: []preferenceItem{{
			Title:      c.cfg.PlanTitle,
			Quantity:   1,
			UnitPrice:  json.Number(c.cfg.PlanPrice.StringFixed(2)),
			CurrencyID: c.cfg.Currency,
		}},
		ExternalReference: userID,
		BackURLs: backURLs{
			Success: redirect + "&status=approved",
			Failure: redirect + "&status=failure",
			Pending: redirect + "&status=pending",
		},
		NotificationURL: c.appURL + "/api/payment-webhook",
		AutoReturn:      StatusApproved,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode preference: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, "/checkout/preferences", body)
	if err != nil {
		return nil, err
	}

	var pref Preference
	if err := json.Unmarshal(raw, &pref); err != nil {
		return nil, ErrProviderUnavailable.Wrap(fmt.Errorf("decode preference: %w", err))
	}
	if pref.ID == "" {
		return nil, ErrProviderUnavailable.Wrap(errors.New("preference without id"))
	}
	return &pref, nil
}

// GetPayment fetches a payment by its provider id.
func (c *Client) GetPayment(ctx context.Context, id string) (*Payment, error) {
	raw, err := c.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var p Payment
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, ErrProviderUnavailable.Wrap(fmt.Errorf("decode payment: %w", err))
	}
	p.ID = id
	return &p, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	raw, err := c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &statusError{code: resp.StatusCode, body: string(data)}
		}
		return data, nil
	})
	if err == nil {
		return raw, nil
	}

	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return nil, ErrPaymentNotFound
	}
	c.logger.Error("payment provider request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Error(err),
	)
	return nil, ErrProviderUnavailable.Wrap(err)
}
