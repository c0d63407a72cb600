package web

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/services"
)

func (h *APIHandlers) GetTemplates(c fiber.Ctx) error {
	templates, err := h.templateService.ListTemplates(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"templates": templates,
		"count":     len(templates),
	})
}

func (h *APIHandlers) GetTemplate(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Template not found")
	}

	template, err := h.templateService.GetTemplate(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(template)
}

func (h *APIHandlers) CreateTemplate(c fiber.Ctx) error {
	var template models.Template
	if err := c.Bind().JSON(&template); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	created, err := h.templateService.CreateTemplate(c.Context(), &template)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateTemplate applies a partial update over the stored template.
func (h *APIHandlers) UpdateTemplate(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Template not found")
	}

	existing, err := h.templateService.GetTemplate(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	merged, err := overlay(existing, c.Body())
	if err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	updated, err := h.templateService.UpdateTemplate(c.Context(), id, merged)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteTemplate(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Template not found")
	}

	if err := h.templateService.DeleteTemplate(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Template %d deleted successfully", id),
	})
}

// ApplyTemplate creates a new draft workflow from the template.
func (h *APIHandlers) ApplyTemplate(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Template not found")
	}

	var req ApplyTemplateRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	workflow, err := h.templateService.ApplyTemplate(c.Context(), id, services.ApplyRequest{
		Name:           req.Name,
		Description:    req.Description,
		Customizations: req.Customizations,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Template applied successfully",
		"workflow": workflow,
	})
}
