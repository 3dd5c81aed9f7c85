package handler

import (
	"github.com/fekuna/omnipos-dashboard/internal/auth"
	"github.com/fekuna/omnipos-dashboard/internal/category"
	"github.com/fekuna/omnipos-dashboard/internal/category/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/categories", h.List)
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.uc.ListCategories(c.UserContext(), &dto.CategoryFilters{
		UserID:      auth.UserID(c),
		WithinStock: c.QueryBool("inStock", false),
	})
	if err != nil {
		return err
	}
	return c.JSON(categories)
}
