package web

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/nodeloom/nodeloom/pkg/models"
)

func (h *APIHandlers) GetAgents(c fiber.Ctx) error {
	agents, err := h.agentService.ListAgents(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"agents": agents,
		"count":  len(agents),
	})
}

func (h *APIHandlers) GetAgent(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Agent not found")
	}

	agent, err := h.agentService.GetAgent(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(agent)
}

func (h *APIHandlers) CreateAgent(c fiber.Ctx) error {
	var agent models.Agent
	if err := c.Bind().JSON(&agent); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	created, err := h.agentService.CreateAgent(c.Context(), &agent)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateAgent applies a partial update over the stored agent.
func (h *APIHandlers) UpdateAgent(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Agent not found")
	}

	existing, err := h.agentService.GetAgent(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	merged, err := overlay(existing, c.Body())
	if err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	updated, err := h.agentService.UpdateAgent(c.Context(), id, merged)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteAgent(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Agent not found")
	}

	if err := h.agentService.DeleteAgent(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Agent %d deleted successfully", id),
	})
}

// ExecuteAgent runs a simulated agent invocation.
func (h *APIHandlers) ExecuteAgent(c fiber.Ctx) error {
	id, ok := parseEntityID(c, "id")
	if !ok {
		return notFound(c, "Agent not found")
	}

	var req ExecuteAgentRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	result, err := h.agentService.ExecuteAgent(c.Context(), id, req.Inputs)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

// overlay decodes a JSON body over a copy of an existing entity, so absent
// fields keep their stored values.
func overlay[T any](existing *T, body []byte) (*T, error) {
	raw, err := json.Marshal(existing)
	if err != nil {
		return nil, err
	}

	merged := new(T)
	if err := json.Unmarshal(raw, merged); err != nil {
		return nil, err
	}

	if len(body) > 0 {
		if err := json.Unmarshal(body, merged); err != nil {
			return nil, err
		}
	}

	return merged, nil
}
