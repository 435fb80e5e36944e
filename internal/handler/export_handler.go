package handler

import (
	"fmt"
	"time"

	"stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ExportHandler struct {
	ledger service.LedgerService
	export *service.ExportService
}

func NewExportHandler(ledger service.LedgerService, export *service.ExportService) *ExportHandler {
	return &ExportHandler{ledger: ledger, export: export}
}

// ExportWorkbook streams the multi-sheet XLSX stock report, scoped to
// the caller's visible departments
// GET /api/v1/export
func (h *ExportHandler) ExportWorkbook(c *fiber.Ctx) error {
	products, err := h.ledger.Products(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	transactions, err := h.ledger.Transactions(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	dept := effectiveDept(c)
	now := time.Now()

	buf, err := h.export.BuildWorkbook(
		service.FilterProducts(products, dept, ""),
		service.FilterTransactions(transactions, dept),
		dept,
		now,
	)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build workbook"})
	}

	filename := fmt.Sprintf("stock-report-%s.xlsx", now.Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(buf.Bytes())
}
