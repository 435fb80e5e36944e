package handler

import (
	"errors"

	"stockledger/internal/model"
	"stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IndentHandler struct {
	indents service.IndentService
}

func NewIndentHandler(indents service.IndentService) *IndentHandler {
	return &IndentHandler{indents: indents}
}

// CreateIndent raises a requisition for a product
// POST /api/v1/indents
func (h *IndentHandler) CreateIndent(c *fiber.Ctx) error {
	var input service.CreateIndentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	indent, err := h.indents.Create(c.Context(), &input, getActor(c))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Indent created", "data": indent})
}

// UpdateIndentStatus advances a requisition through its lifecycle
// PATCH /api/v1/indents/:id/status
func (h *IndentHandler) UpdateIndentStatus(c *fiber.Ctx) error {
	indentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid indent ID"})
	}

	var req struct {
		Status model.IndentStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	indent, err := h.indents.UpdateStatus(c.Context(), indentID, req.Status, getActor(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIndentNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidTransition):
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"message": "Indent status updated", "data": indent})
}

// GetIndents returns requisitions visible to the caller
// GET /api/v1/indents
func (h *IndentHandler) GetIndents(c *fiber.Ctx) error {
	indents, err := h.indents.Indents(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	filtered := service.FilterIndents(indents, effectiveDept(c))
	return c.JSON(filtered)
}
