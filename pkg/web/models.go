package web

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/nodeloom/nodeloom/pkg/models"
)

func (h *APIHandlers) GetModels(c fiber.Ctx) error {
	list, err := h.modelService.ListModels(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"models": list,
		"count":  len(list),
	})
}

func (h *APIHandlers) GetModel(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Model not found")
	}

	model, err := h.modelService.GetModel(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(model)
}

func (h *APIHandlers) CreateModel(c fiber.Ctx) error {
	var model models.Model
	if err := c.Bind().JSON(&model); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	created, err := h.modelService.CreateModel(c.Context(), &model)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateModel applies a partial update over the stored model.
func (h *APIHandlers) UpdateModel(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Model not found")
	}

	existing, err := h.modelService.GetModel(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	merged, err := overlay(existing, c.Body())
	if err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	updated, err := h.modelService.UpdateModel(c.Context(), id, merged)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

// DeleteModel refuses deletion while any agent still references the model.
func (h *APIHandlers) DeleteModel(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Model not found")
	}

	if err := h.modelService.DeleteModel(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Model %d deleted successfully", id),
	})
}

// ExecuteModel runs a simulated completion against the model.
func (h *APIHandlers) ExecuteModel(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Model not found")
	}

	var req ExecuteModelRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Input text is required")
	}

	response, err := h.modelService.ExecuteModel(c.Context(), id, req.Input, req.Parameters)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(response)
}
