package handler

import (
	"strconv"

	"stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	ledger  service.LedgerService
	reports service.ReportService
}

func NewDashboardHandler(ledger service.LedgerService, reports service.ReportService) *DashboardHandler {
	return &DashboardHandler{ledger: ledger, reports: reports}
}

// GetStats returns overview statistics for the caller's visible scope
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	products, err := h.ledger.Products(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	visible := service.FilterProducts(products, effectiveDept(c), "")
	return c.JSON(service.ComputeStats(visible))
}

// GetLowStock returns items at or below their minimum, lowest first
// GET /api/v1/dashboard/low-stock
func (h *DashboardHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.ledger.Products(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch low stock items"})
	}

	visible := service.FilterProducts(products, effectiveDept(c), "")
	return c.JSON(service.LowStockList(visible))
}

// GetStockMovement returns per-day inbound/outbound totals for charts
// Query params: days (default 7)
// GET /api/v1/dashboard/stock-movement
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	daysStr := c.Query("days", "7")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.reports.StockMovement(c.Context(), days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock movement"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetCostAnalysis returns inbound/outbound value totals, top consumers
// and category cost breakdown for the caller's visible scope
// GET /api/v1/dashboard/cost-analysis
func (h *DashboardHandler) GetCostAnalysis(c *fiber.Ctx) error {
	analysis, err := h.reports.CostAnalysis(c.Context(), effectiveDept(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute cost analysis"})
	}

	return c.JSON(analysis)
}
