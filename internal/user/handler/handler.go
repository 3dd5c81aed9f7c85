package handler

import (
	"github.com/fekuna/omnipos-dashboard/internal/auth"
	"github.com/fekuna/omnipos-dashboard/internal/user"
	"github.com/fekuna/omnipos-dashboard/internal/user/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/i18n"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	uc     user.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewUserHandler(uc user.UseCase, tr *i18n.Translator, log logger.ZapLogger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"businessName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name         *string `json:"name"`
	BusinessName *string `json:"businessName"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// RegisterRoutes mounts the public auth endpoints and the profile endpoints
// behind authMW.
func (h *UserHandler) RegisterRoutes(r fiber.Router, authMW fiber.Handler) {
	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/reset-password", h.ResetPassword)
	r.Get("/me", authMW, h.Me)
	r.Put("/me", authMW, h.UpdateMe)
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	u, err := h.uc.Register(c.UserContext(), &dto.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		BusinessName: req.BusinessName,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": u})
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := h.uc.Login(c.UserContext(), &dto.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	u, err := h.uc.GetProfile(c.UserContext(), auth.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": u})
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	u, err := h.uc.UpdateProfile(c.UserContext(), &dto.UpdateProfileInput{
		UserID:       auth.UserID(c),
		Name:         req.Name,
		BusinessName: req.BusinessName,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": u})
}

func (h *UserHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.uc.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": h.message(c, "reset_email_sent", "If the account exists, a reset link has been sent.")})
}

func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.uc.ResetPassword(c.UserContext(), &dto.ResetPasswordInput{Token: req.Token, Password: req.Password}); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": h.message(c, "password_reset", "Your password has been updated.")})
}

func (h *UserHandler) message(c *fiber.Ctx, id, fallback string) string {
	return h.tr.Localize(id, fallback, nil, c.Get(fiber.HeaderAcceptLanguage))
}
