package handler

import (
	"github.com/fekuna/omnipos-dashboard/internal/auth"
	"github.com/fekuna/omnipos-dashboard/internal/report"
	"github.com/fekuna/omnipos-dashboard/internal/report/dto"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	uc     report.UseCase
	logger logger.ZapLogger
}

func NewReportHandler(uc report.UseCase, log logger.ZapLogger) *ReportHandler {
	return &ReportHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ReportHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/analytics", h.Analytics)
	r.Get("/salesData", h.SalesData)
	r.Get("/reports/daily", h.Daily)
}

func (h *ReportHandler) Analytics(c *fiber.Ctx) error {
	if err := auth.EnsureSelf(c, c.Query("userId")); err != nil {
		return err
	}

	a, err := h.uc.Analytics(c.UserContext(), &dto.AnalyticsFilters{
		UserID:    auth.UserID(c),
		RangeDays: c.QueryInt("rangeDays", 0),
		Limit:     c.QueryInt("limit", 0),
	})
	if err != nil {
		return err
	}
	return c.JSON(a)
}

func (h *ReportHandler) SalesData(c *fiber.Ctx) error {
	if err := auth.EnsureSelf(c, c.Query("userId")); err != nil {
		return err
	}

	totals, err := h.uc.SalesByDate(c.UserContext(), auth.UserID(c), c.QueryInt("rangeDays", 0))
	if err != nil {
		return err
	}
	return c.JSON(totals)
}

func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	rep, err := h.uc.DailyReport(c.UserContext(), auth.UserID(c), c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(rep)
}
