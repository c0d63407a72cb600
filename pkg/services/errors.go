// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"
	"fmt"
)

// Validation errors (400 Bad Request).
var (
	ErrWorkflowNameRequired = errors.New("workflow name is required")
	ErrAgentNameRequired    = errors.New("agent name is required")
	ErrCapabilitiesRequired = errors.New("agent capabilities are required")
	ErrModelNameRequired    = errors.New("model name is required")
	ErrProviderRequired     = errors.New("model provider is required")
	ErrModelIDRequired      = errors.New("model ID is required")
	ErrTemplateNameRequired = errors.New("template name is required")
	ErrInputRequired        = errors.New("input text is required")
	ErrInvalidExport        = errors.New("invalid workflow export format")
	ErrModelInUse           = errors.New("model is in use")
)

// ModelInUseError reports which agent still references a model that a caller
// tried to delete.
type ModelInUseError struct {
	ModelID   int
	AgentID   int
	AgentName string
}

func (e *ModelInUseError) Error() string {
	return fmt.Sprintf(
		"cannot delete model: it is in use by agent %d (%s)", e.AgentID, e.AgentName)
}

func (e *ModelInUseError) Unwrap() error {
	return ErrModelInUse
}

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrWorkflowNameRequired) ||
		errors.Is(err, ErrAgentNameRequired) ||
		errors.Is(err, ErrCapabilitiesRequired) ||
		errors.Is(err, ErrModelNameRequired) ||
		errors.Is(err, ErrProviderRequired) ||
		errors.Is(err, ErrModelIDRequired) ||
		errors.Is(err, ErrTemplateNameRequired) ||
		errors.Is(err, ErrInputRequired) ||
		errors.Is(err, ErrInvalidExport) ||
		errors.Is(err, ErrModelInUse)
}
