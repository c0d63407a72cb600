package web

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/services"
)

// GetWorkflows lists workflows, optionally filtered by query, status, and tags.
func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	req := services.SearchRequest{
		Query:  c.Query("query"),
		Status: c.Query("status"),
	}

	if tags := c.Query("tags"); tags != "" {
		req.Tags = strings.Split(tags, ",")
	} else if tag := c.Query("tag"); tag != "" {
		req.Tags = []string{tag}
	}

	workflows, err := h.workflowService.ListWorkflows(c.Context(), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflows": workflows,
		"count":     len(workflows),
	})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Workflow not found")
	}

	workflow, err := h.workflowService.GetWorkflow(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var workflow models.Workflow
	if err := c.Bind().JSON(&workflow); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	created, err := h.workflowService.CreateWorkflow(c.Context(), &workflow)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateWorkflow applies a partial update: fields present in the body
// overwrite the stored workflow, everything else is kept.
func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Workflow not found")
	}

	existing, err := h.workflowService.GetWorkflow(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	merged := existing.Clone()
	if err := json.Unmarshal(c.Body(), merged); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	updated, err := h.workflowService.UpdateWorkflow(c.Context(), id, merged)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Workflow not found")
	}

	if err := h.workflowService.DeleteWorkflow(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Workflow %d deleted successfully", id),
	})
}

// ExecuteWorkflow starts a simulated workflow run and returns its initial
// node map.
func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Workflow not found")
	}

	var req ExecuteWorkflowRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	start, err := h.workflowService.ExecuteWorkflow(c.Context(), id, req.Inputs)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(start)
}

func (h *APIHandlers) CloneWorkflow(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Workflow not found")
	}

	clone, err := h.workflowService.CloneWorkflow(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(clone)
}

func (h *APIHandlers) ExportWorkflow(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Workflow not found")
	}

	export, err := h.workflowService.ExportWorkflow(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(export)
}

func (h *APIHandlers) ImportWorkflow(c fiber.Ctx) error {
	imported, err := h.workflowService.ImportWorkflow(c.Context(), c.Body())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(imported)
}
