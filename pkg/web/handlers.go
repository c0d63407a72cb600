// Package web provides HTTP handlers and REST API endpoints for the mock
// orchestration backend.
package web

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/nodeloom/nodeloom/pkg/execution"
	"github.com/nodeloom/nodeloom/pkg/registry"
	"github.com/nodeloom/nodeloom/pkg/services"
)

type APIHandlers struct {
	workflowService *services.Workflow
	agentService    *services.Agent
	modelService    *services.Model
	templateService *services.Template
	executions      *execution.Registry
	registry        *registry.Registry
	validator       *validator.Validate
	logger          *slog.Logger
	uploadDir       string
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	agentService *services.Agent,
	modelService *services.Model,
	templateService *services.Template,
	executions *execution.Registry,
	registry *registry.Registry,
	validator *validator.Validate,
	logger *slog.Logger,
	uploadDir string,
) *APIHandlers {
	return &APIHandlers{
		workflowService: workflowService,
		agentService:    agentService,
		modelService:    modelService,
		templateService: templateService,
		executions:      executions,
		registry:        registry,
		validator:       validator,
		logger:          logger,
		uploadDir:       uploadDir,
	}
}

// Index reports the service banner.
func (h *APIHandlers) Index(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    "Nodeloom API",
		"version": "0.1.0",
		"status":  "running",
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Nodeloom API is unhealthy"
	httpStatus := fiber.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Nodeloom API is healthy"
		httpStatus = fiber.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// GetNodeTypes lists the node kinds the editor palette can place.
func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	nodeTypes := h.registry.List()

	return c.JSON(fiber.Map{
		"node_types": nodeTypes,
		"count":      len(nodeTypes),
	})
}

// CreateConnection acknowledges a new connection between two nodes. The
// connection is not persisted; the editor keeps the graph client-side and
// saves it with the workflow.
func (h *APIHandlers) CreateConnection(c fiber.Ctx) error {
	workflowID := c.Params("id")

	var req CreateConnectionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	sourcePort := req.SourcePort
	if sourcePort == "" {
		sourcePort = "output"
	}

	targetPort := req.TargetPort
	if targetPort == "" {
		targetPort = "input"
	}

	connection := fiber.Map{
		"id":         fmt.Sprintf("conn_%s_%d", workflowID, 1000+rand.IntN(9000)),
		"source":     req.Source,
		"target":     req.Target,
		"sourcePort": sourcePort,
		"targetPort": targetPort,
		"created_at": time.Now().UTC(),
	}

	return c.Status(fiber.StatusCreated).JSON(connection)
}

// DeleteConnection acknowledges removal of a connection.
func (h *APIHandlers) DeleteConnection(c fiber.Ctx) error {
	connectionID := c.Params("connectionId")

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Connection %s deleted successfully", connectionID),
	})
}

// parseEntityID converts a numeric path parameter. Non-numeric IDs behave as
// missing entities rather than malformed requests.
func parseEntityID(c fiber.Ctx, param string) (int, bool) {
	id, err := strconv.Atoi(c.Params(param))
	if err != nil || id < 0 {
		return 0, false
	}

	return id, true
}
