package web

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/nodeloom/nodeloom/pkg/execution"
	"github.com/nodeloom/nodeloom/pkg/persistence"
	"github.com/nodeloom/nodeloom/pkg/services"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleServiceError maps entity service errors onto HTTP statuses.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case services.IsValidationError(err):
		return badRequest(c, capitalize(err.Error()))

	case persistence.IsWorkflowNotFound(err):
		return notFound(c, "Workflow not found")

	case persistence.IsAgentNotFound(err):
		return notFound(c, "Agent not found")

	case persistence.IsModelNotFound(err):
		return notFound(c, "Model not found")

	case persistence.IsTemplateNotFound(err):
		return notFound(c, "Template not found")

	default:
		return internalError(c, err)
	}
}

// handleExecutionError maps execution tracking errors onto HTTP statuses,
// keeping the error details clients key on.
func handleExecutionError(c fiber.Ctx, err error) error {
	var nodeErr *execution.NodeError

	switch {
	case errors.Is(err, execution.ErrExecutionNotFound):
		return notFound(c, "Execution not found")

	case errors.As(err, &nodeErr):
		switch nodeErr.Role {
		case "source":
			return notFound(c, "Source node "+nodeErr.NodeID+" not found")
		case "target":
			return notFound(c, "Target node "+nodeErr.NodeID+" not found")
		default:
			return notFound(c, "Node not found in this execution")
		}

	case errors.Is(err, execution.ErrNodeNotFound):
		return notFound(c, "Node not found in this execution")

	case errors.Is(err, execution.ErrStatusRequired):
		return badRequest(c, "Node status is required")

	case errors.Is(err, execution.ErrDataRequired):
		return badRequest(c, "Data payload is required")

	case errors.Is(err, execution.ErrActionRequired):
		return badRequest(c, "Action is required (approve, reject, or input)")

	case errors.Is(err, execution.ErrInvalidAction):
		return badRequest(c, "Invalid action. Must be approve, reject, or input")

	case errors.Is(err, execution.ErrInputRequired):
		return badRequest(c, "Input data is required for input action")

	default:
		return internalError(c, err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
