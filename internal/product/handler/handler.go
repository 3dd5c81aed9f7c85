package handler

import (
	"github.com/fekuna/omnipos-dashboard/internal/auth"
	"github.com/fekuna/omnipos-dashboard/internal/product"
	"github.com/fekuna/omnipos-dashboard/internal/product/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

type createProductRequest struct {
	Name     string           `json:"name"`
	Code     string           `json:"code"`
	Price    *decimal.Decimal `json:"price"`
	Unit     string           `json:"unit"`
	Category string           `json:"category"`
	Stock    *int             `json:"stock"`
}

type updateProductRequest struct {
	ID       string           `json:"id"`
	UserID   string           `json:"userId"`
	Name     *string          `json:"name"`
	Code     *string          `json:"code"`
	Price    *decimal.Decimal `json:"price"`
	Unit     *string          `json:"unit"`
	Category *string          `json:"category"`
	Stock    *int             `json:"stock"`
	IsActive *bool            `json:"isActive"`
}

type productStatusRequest struct {
	ProductID string `json:"productId"`
	IsActive  *bool  `json:"isActive"`
}

func (h *ProductHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/products", h.List)
	r.Post("/products", h.Create)
	r.Put("/products", h.Update)
	r.Delete("/products", h.Delete)
	r.Post("/updateProductStatus", h.SetStatus)
	r.Post("/updatePrices", h.UpdatePrices)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	if err := auth.EnsureSelf(c, c.Query("userId")); err != nil {
		return err
	}

	products, err := h.uc.ListProducts(c.UserContext(), &dto.ProductFilters{
		UserID:      auth.UserID(c),
		Category:    c.Query("category"),
		SearchQuery: c.Query("q"),
	})
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	p, err := h.uc.CreateProduct(c.UserContext(), &dto.CreateProductInput{
		UserID:   auth.UserID(c),
		Name:     req.Name,
		Code:     req.Code,
		Price:    req.Price,
		Unit:     req.Unit,
		Category: req.Category,
		Stock:    req.Stock,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req updateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := auth.EnsureSelf(c, req.UserID); err != nil {
		return err
	}

	p, err := h.uc.UpdateProduct(c.UserContext(), &dto.UpdateProductInput{
		ID:       req.ID,
		UserID:   auth.UserID(c),
		Name:     req.Name,
		Code:     req.Code,
		Price:    req.Price,
		Unit:     req.Unit,
		Category: req.Category,
		Stock:    req.Stock,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeactivateProduct(c.UserContext(), auth.UserID(c), c.Query("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *ProductHandler) SetStatus(c *fiber.Ctx) error {
	var req productStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.IsActive == nil {
		return fiber.NewError(fiber.StatusBadRequest, "isActive is required")
	}

	if err := h.uc.SetProductStatus(c.UserContext(), auth.UserID(c), req.ProductID, *req.IsActive); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *ProductHandler) UpdatePrices(c *fiber.Ctx) error {
	var changes []dto.PriceChange
	if err := c.BodyParser(&changes); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.uc.UpdatePrices(c.UserContext(), auth.UserID(c), changes); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "updated": len(changes)})
}
