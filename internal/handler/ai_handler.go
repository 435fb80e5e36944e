package handler

import (
	"stockledger/internal/ai"
	"stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AIHandler struct {
	client ai.Client
	ledger service.LedgerService
}

func NewAIHandler(client ai.Client, ledger service.LedgerService) *AIHandler {
	return &AIHandler{client: client, ledger: ledger}
}

// GenerateDescription drafts product copy from name, category and
// department. Always returns 200; provider failures yield the fallback
// text instead of an error.
// POST /api/v1/ai/description
func (h *AIHandler) GenerateDescription(c *fiber.Ctx) error {
	var req struct {
		Name       string `json:"name"`
		Category   string `json:"category"`
		Department string `json:"department"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Product name is required"})
	}

	description := h.client.GenerateDescription(c.Context(), req.Name, req.Category, req.Department)
	return c.JSON(fiber.Map{"description": description})
}

// GetInsights returns the structured stock analysis for the caller's
// visible scope. A null insights value means the advisor is unavailable.
// GET /api/v1/ai/insights
func (h *AIHandler) GetInsights(c *fiber.Ctx) error {
	products, err := h.ledger.Products(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	dept := effectiveDept(c)
	visible := service.FilterProducts(products, dept, "")

	insights := h.client.GetInsights(c.Context(), visible, dept)
	return c.JSON(fiber.Map{"insights": insights})
}
