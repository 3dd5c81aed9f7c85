package handler

import (
	"github.com/fekuna/omnipos-dashboard/internal/auth"
	"github.com/fekuna/omnipos-dashboard/internal/inventory"
	"github.com/fekuna/omnipos-dashboard/internal/inventory/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

type updateStockRequest struct {
	ProductID   string `json:"productId"`
	StockChange int    `json:"stockChange"`
}

func (h *InventoryHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/updateStock", h.UpdateStock)
	r.Get("/stockMovements", h.ListMovements)
}

func (h *InventoryHandler) UpdateStock(c *fiber.Ctx) error {
	var req updateStockRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	p, err := h.uc.AdjustStock(c.UserContext(), &dto.AdjustStockInput{
		UserID:    auth.UserID(c),
		ProductID: req.ProductID,
		Change:    req.StockChange,
	})
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	filters := &dto.MovementFilters{
		UserID:    auth.UserID(c),
		ProductID: c.Query("productId"),
		Page:      c.QueryInt("page", 1),
		PageSize:  c.QueryInt("pageSize", 0),
	}

	movements, total, err := h.uc.ListMovements(c.UserContext(), filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"movements": movements,
		"total":     total,
		"page":      filters.Page,
		"pageSize":  filters.PageSize,
	})
}
