package handler

import (
	"strings"

	"github.com/fekuna/omnipos-dashboard/internal/auth"
	"github.com/fekuna/omnipos-dashboard/internal/subscription"
	"github.com/fekuna/omnipos-dashboard/internal/subscription/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	uc          subscription.UseCase
	appURL      string
	enableTests bool
	logger      logger.ZapLogger
}

func NewSubscriptionHandler(uc subscription.UseCase, appURL string, enableTests bool, log logger.ZapLogger) *SubscriptionHandler {
	return &SubscriptionHandler{
		uc:          uc,
		appURL:      appURL,
		enableTests: enableTests,
		logger:      log,
	}
}

type preferenceRequest struct {
	UserID string `json:"user_id"`
}

type notificationBody struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
	Data  struct {
		ID string `json:"id"`
	} `json:"data"`
}

// RegisterRoutes mounts the provider callbacks publicly and the rest behind authMW.
func (h *SubscriptionHandler) RegisterRoutes(r fiber.Router, authMW fiber.Handler) {
	r.Post("/payment-webhook", h.Webhook)
	r.Get("/payment-webhook", h.Webhook)
	r.Get("/handle-subscription", h.Redirect)

	r.Post("/create-preference", authMW, h.CreatePreference)
	r.Get("/subscriptions/check", authMW, h.Check)
	if h.enableTests {
		r.Post("/subscriptions/create-test", authMW, h.CreateTest)
	}
}

func (h *SubscriptionHandler) CreatePreference(c *fiber.Ctx) error {
	var req preferenceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}
	if err := auth.EnsureSelf(c, req.UserID); err != nil {
		return err
	}

	checkout, err := h.uc.CreateCheckout(c.UserContext(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(checkout)
}

// Webhook accepts both the JSON and the query-string notification formats.
func (h *SubscriptionHandler) Webhook(c *fiber.Ctx) error {
	var body notificationBody
	if c.Method() == fiber.MethodPost && len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			h.logger.Warn("unreadable payment notification", zap.Error(err))
		}
	}

	// Query values alias fiber's request buffer; the notification outlives it.
	n := &dto.Notification{
		Type:      strings.Clone(firstNonEmpty(body.Type, body.Topic, c.Query("type"), c.Query("topic"))),
		PaymentID: strings.Clone(firstNonEmpty(body.Data.ID, c.Query("data.id"), c.Query("id"))),
	}
	if err := h.uc.HandleNotification(c.UserContext(), n); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *SubscriptionHandler) Redirect(c *fiber.Ctx) error {
	outcome := h.uc.HandleRedirect(c.UserContext(), &dto.RedirectInput{
		Status:    strings.Clone(firstNonEmpty(c.Query("status"), c.Query("collection_status"))),
		UserID:    strings.Clone(c.Query("user_id")),
		PaymentID: strings.Clone(firstNonEmpty(c.Query("payment_id"), c.Query("collection_id"))),
	})

	switch outcome {
	case dto.OutcomeSuccess:
		return c.Redirect(h.appURL+"/dashboard?subscription=success", fiber.StatusFound)
	case dto.OutcomePending:
		return c.Redirect(h.appURL+"/subscription?status=pending", fiber.StatusFound)
	default:
		return c.Redirect(h.appURL+"/subscription?status=error", fiber.StatusFound)
	}
}

func (h *SubscriptionHandler) Check(c *fiber.Ctx) error {
	res, err := h.uc.Check(c.UserContext(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *SubscriptionHandler) CreateTest(c *fiber.Ctx) error {
	s, err := h.uc.CreateTest(c.UserContext(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"subscription": s})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
