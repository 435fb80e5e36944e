package handler

import (
	"errors"

	"stockledger/internal/model"
	"stockledger/internal/repository"
	"stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	ledger service.LedgerService
}

func NewInventoryHandler(ledger service.LedgerService) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// Helpers to pull user info from JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

func getUserDepartment(c *fiber.Ctx) string {
	dept := c.Locals("user_department")
	if dept == nil {
		return ""
	}
	return dept.(string)
}

func hasPermission(c *fiber.Ctx, code string) bool {
	permissions, ok := c.Locals("user_permissions").([]string)
	if !ok {
		return false
	}
	for _, p := range permissions {
		if p == code {
			return true
		}
	}
	return false
}

func getActor(c *fiber.Ctx) service.Actor {
	return service.Actor{ID: getUserID(c), Name: getUserName(c)}
}

func getViewer(c *fiber.Ctx) service.Viewer {
	return service.Viewer{
		Department:      getUserDepartment(c),
		HasGlobalAccess: hasPermission(c, model.PermGlobalAccess),
	}
}

// effectiveDept resolves the viewer's scope against the ?dept query param.
func effectiveDept(c *fiber.Ctx) string {
	return service.EffectiveDepartment(getViewer(c), c.Query("dept"))
}

// RegisterProduct handles product registration with opening stock
// POST /api/v1/products
func (h *InventoryHandler) RegisterProduct(c *fiber.Ctx) error {
	var input service.RegisterProductInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.ledger.Register(c.Context(), &input, getActor(c))
	if err != nil {
		if errors.Is(err, service.ErrSKUExists) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product registered", "data": product})
}

// ApplyMovement posts a stock entry or issue against a product
// POST /api/v1/products/:id/movements
func (h *InventoryHandler) ApplyMovement(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var input service.MovementInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.ledger.ApplyMovement(c.Context(), productID, &input, getActor(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrInsufficientStock):
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"message": "Movement recorded", "data": product})
}

// UpdateProduct edits product master data (never the balance)
// PUT /api/v1/products/:id
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var input service.EditProductInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.ledger.Edit(c.Context(), productID, &input, getActor(c))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// DeleteProduct removes a product together with its transaction history
// DELETE /api/v1/products/:id
func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.ledger.Delete(c.Context(), productID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// PurgeAll wipes every product, transaction and indent. The caller must
// restate intent with ?confirm=true.
// DELETE /api/v1/data
func (h *InventoryHandler) PurgeAll(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return c.Status(400).JSON(fiber.Map{"error": "Purge requires confirm=true"})
	}

	if err := h.ledger.PurgeAll(c.Context()); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to purge data"})
	}

	return c.JSON(fiber.Map{"message": "All inventory data purged"})
}

// GetProducts returns products visible to the caller, optionally
// narrowed by ?dept= and ?search=
// GET /api/v1/products
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.ledger.Products(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	filtered := service.FilterProducts(products, effectiveDept(c), c.Query("search"))
	return c.JSON(filtered)
}

// GetTransactions returns the transaction log visible to the caller
// GET /api/v1/transactions
func (h *InventoryHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.ledger.Transactions(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	filtered := service.FilterTransactions(transactions, effectiveDept(c))
	return c.JSON(filtered)
}

// GetProductHistory returns the full movement history of one product
// GET /api/v1/products/:id/transactions
func (h *InventoryHandler) GetProductHistory(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	history, err := h.ledger.ProductHistory(c.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(history)
}
