package handler

import (
	"strconv"

	"go-inventory-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ReportHandler struct {
	service service.ReportService
	log     *logrus.Logger
}

func NewReportHandler(s service.ReportService, log *logrus.Logger) *ReportHandler {
	return &ReportHandler{service: s, log: log}
}

// GetSummary returns per-product performance and business totals.
func (h *ReportHandler) GetSummary(c *fiber.Ctx) error {
	r, err := h.service.Summary(c.UserContext())
	if err != nil {
		return fail(c, h.log, err, "")
	}
	return c.JSON(r)
}

func (h *ReportHandler) GetDashboard(c *fiber.Ctx) error {
	d, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return fail(c, h.log, err, "")
	}
	return c.JSON(d)
}

// GetInventory returns products grouped by category.
func (h *ReportHandler) GetInventory(c *fiber.Ctx) error {
	groups, err := h.service.Inventory(c.UserContext())
	if err != nil {
		return fail(c, h.log, err, "")
	}
	return c.JSON(groups)
}

func (h *ReportHandler) GetHistory(c *fiber.Ctx) error {
	entries, err := h.service.History(c.UserContext())
	if err != nil {
		return fail(c, h.log, err, "")
	}
	return c.JSON(entries)
}

func (h *ReportHandler) GetLowStock(c *fiber.Ctx) error {
	items, err := h.service.LowStock(c.UserContext())
	if err != nil {
		return fail(c, h.log, err, "")
	}
	return c.JSON(items)
}

// GetStockMovement returns daily inbound/outbound units for charts.
// Query params: days (default 7)
func (h *ReportHandler) GetStockMovement(c *fiber.Ctx) error {
	daysStr := c.Query("days", "7")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.service.StockMovement(c.UserContext(), days)
	if err != nil {
		return fail(c, h.log, err, "")
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}
