package handler

import (
	"errors"

	"stockledger/internal/model"
	"stockledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	settings service.SettingsService
}

func NewSettingsHandler(settings service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetFormFields returns the registration form configuration
// GET /api/v1/settings/form-fields
func (h *SettingsHandler) GetFormFields(c *fiber.Ctx) error {
	fields, err := h.settings.FormFields(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch form fields"})
	}
	return c.JSON(fields)
}

// UpdateFormField toggles a form field's enabled/required flags
// PUT /api/v1/settings/form-fields
func (h *SettingsHandler) UpdateFormField(c *fiber.Ctx) error {
	var req service.UpdateFormFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.settings.UpdateFormField(c.Context(), &req); err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownFormField):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrMandatoryField):
			return c.Status(422).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"message": "Form field updated"})
}

// GetAppConfig returns app branding
// GET /api/v1/settings/app-config
func (h *SettingsHandler) GetAppConfig(c *fiber.Ctx) error {
	cfg, err := h.settings.AppConfig(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch app config"})
	}
	return c.JSON(cfg)
}

// UpdateAppConfig sets app name and logo
// PUT /api/v1/settings/app-config
func (h *SettingsHandler) UpdateAppConfig(c *fiber.Ctx) error {
	var req struct {
		AppName string `json:"app_name"`
		LogoURL string `json:"logo_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	cfg, err := h.settings.UpdateAppConfig(c.Context(), req.AppName, req.LogoURL)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "App config updated", "data": cfg})
}

// GetDepartments returns the department list
// GET /api/v1/departments
func (h *SettingsHandler) GetDepartments(c *fiber.Ctx) error {
	departments, err := h.settings.Departments(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch departments"})
	}
	return c.JSON(departments)
}

// AddDepartment creates a department
// POST /api/v1/departments
func (h *SettingsHandler) AddDepartment(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	dept, err := h.settings.AddDepartment(c.Context(), req.Name)
	if err != nil {
		if errors.Is(err, service.ErrDeptExists) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Department added", "data": dept})
}

// DeleteDepartment removes a department from the list. Existing products
// and users keep their department string.
// DELETE /api/v1/departments/:name
func (h *SettingsHandler) DeleteDepartment(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := h.settings.DeleteDepartment(c.Context(), name); err != nil {
		if errors.Is(err, service.ErrDeptNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Department deleted"})
}

// GetMeta returns static form vocabularies (categories and units)
// GET /api/v1/meta
func (h *SettingsHandler) GetMeta(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": model.DefaultCategories,
		"units":      model.Units,
	})
}
