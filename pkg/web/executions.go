package web

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/nodeloom/nodeloom/pkg/execution"
)

// GetExecutionState returns the full state of a workflow execution.
func (h *APIHandlers) GetExecutionState(c fiber.Ctx) error {
	executionID := c.Params("id")

	state, err := h.executions.ExecutionState(c.Context(), executionID)
	if err != nil {
		return handleExecutionError(c, err)
	}

	return c.JSON(state)
}

// UpdateExecutionState merges an update into the execution, creating it when
// it does not exist yet.
func (h *APIHandlers) UpdateExecutionState(c fiber.Ctx) error {
	// Params are backed by the request buffer, which Fiber reuses after the
	// handler returns; the registry retains these IDs, so copy them.
	executionID := strings.Clone(c.Params("id"))

	update := map[string]any{}
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&update); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	state, err := h.executions.UpsertExecutionState(c.Context(), executionID, update)
	if err != nil {
		return handleExecutionError(c, err)
	}

	return c.JSON(state)
}

// GetNodeStatus returns a single node's execution record.
func (h *APIHandlers) GetNodeStatus(c fiber.Ctx) error {
	executionID := c.Params("id")
	nodeID := c.Params("nodeId")

	node, err := h.executions.NodeStatus(c.Context(), executionID, nodeID)
	if err != nil {
		return handleExecutionError(c, err)
	}

	return c.JSON(node)
}

// UpdateNodeStatus merges an update into a node's record. The execution is
// created lazily when the client reports progress for an unknown run.
func (h *APIHandlers) UpdateNodeStatus(c fiber.Ctx) error {
	// Copied for the same reason as in UpdateExecutionState.
	executionID := strings.Clone(c.Params("id"))
	nodeID := strings.Clone(c.Params("nodeId"))

	update := map[string]any{}
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&update); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	node, err := h.executions.UpsertNodeStatus(c.Context(), executionID, nodeID, update)
	if err != nil {
		return handleExecutionError(c, err)
	}

	return c.JSON(node)
}

// TransferData records a data hand-off between two nodes of an execution.
func (h *APIHandlers) TransferData(c fiber.Ctx) error {
	// Copied for the same reason as in UpdateExecutionState.
	executionID := strings.Clone(c.Params("id"))
	sourceNodeID := strings.Clone(c.Params("sourceNodeId"))
	targetNodeID := strings.Clone(c.Params("targetNodeId"))

	payload := map[string]any{}
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&payload); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	receipt, err := h.executions.TransferData(
		c.Context(), executionID, sourceNodeID, targetNodeID, payload)
	if err != nil {
		return handleExecutionError(c, err)
	}

	return c.JSON(receipt)
}

// ManualNodeAction applies a human approval, rejection, or input to a node.
func (h *APIHandlers) ManualNodeAction(c fiber.Ctx) error {
	// Copied for the same reason as in UpdateExecutionState.
	executionID := strings.Clone(c.Params("id"))
	nodeID := strings.Clone(c.Params("nodeId"))

	var req ManualActionRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	data := map[string]any{}
	if req.Comment != "" {
		data["comment"] = req.Comment
	}

	if req.Reason != "" {
		data["reason"] = req.Reason
	}

	if req.Input != nil {
		data["input"] = req.Input
	}

	result, err := h.executions.ApplyManualAction(
		c.Context(), executionID, nodeID, req.Action, data)
	if err != nil {
		var nodeErr *execution.NodeError
		if errors.As(err, &nodeErr) {
			return notFound(c, "Node not found")
		}

		return handleExecutionError(c, err)
	}

	return c.JSON(result)
}
