package handler

import (
	"strconv"

	"github.com/fekuna/omnipos-dashboard/internal/auth"
	"github.com/fekuna/omnipos-dashboard/internal/sale"
	"github.com/fekuna/omnipos-dashboard/internal/sale/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const HeaderTotalCount = "X-Total-Count"

type SaleHandler struct {
	uc     sale.UseCase
	logger logger.ZapLogger
}

func NewSaleHandler(uc sale.UseCase, log logger.ZapLogger) *SaleHandler {
	return &SaleHandler{
		uc:     uc,
		logger: log,
	}
}

type createSaleRequest struct {
	Total  decimal.Decimal       `json:"total"`
	UserID string                `json:"userId"`
	Items  []dto.CreateItemInput `json:"items"`
}

type updateSaleRequest struct {
	Items []dto.UpdateItemInput `json:"items"`
}

func (h *SaleHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/sales", h.List)
	r.Post("/sales", h.Create)
	r.Get("/sales/:id", h.Get)
	r.Put("/sales/:id", h.Update)
	r.Delete("/sales/:id", h.Delete)
}

func (h *SaleHandler) List(c *fiber.Ctx) error {
	if err := auth.EnsureSelf(c, c.Query("userId")); err != nil {
		return err
	}

	sales, total, err := h.uc.ListSales(c.UserContext(), &dto.SaleFilters{
		UserID:   auth.UserID(c),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 0),
	})
	if err != nil {
		return err
	}
	c.Set(HeaderTotalCount, strconv.Itoa(total))
	return c.JSON(sales)
}

func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var req createSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := auth.EnsureSelf(c, req.UserID); err != nil {
		return err
	}

	s, err := h.uc.CreateSale(c.UserContext(), &dto.CreateSaleInput{
		UserID: auth.UserID(c),
		Total:  req.Total,
		Items:  req.Items,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

func (h *SaleHandler) Get(c *fiber.Ctx) error {
	s, err := h.uc.GetSale(c.UserContext(), auth.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(s)
}

func (h *SaleHandler) Update(c *fiber.Ctx) error {
	var req updateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	s, err := h.uc.UpdateSale(c.UserContext(), &dto.UpdateSaleInput{
		ID:     c.Params("id"),
		UserID: auth.UserID(c),
		Items:  req.Items,
	})
	if err != nil {
		return err
	}
	return c.JSON(s)
}

func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteSale(c.UserContext(), auth.UserID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
