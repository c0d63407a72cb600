// Package execution provides standardized error types for registry operations.
package execution

import (
	"errors"
	"fmt"
)

// Standard registry error values. Handlers map these onto HTTP statuses.
var (
	// ErrExecutionNotFound indicates the execution does not exist on a path
	// that requires pre-existence.
	ErrExecutionNotFound = errors.New("execution not found")

	// ErrNodeNotFound indicates the node does not exist in the execution's
	// node mapping.
	ErrNodeNotFound = errors.New("node not found in this execution")

	// ErrStatusRequired indicates a node status upsert without a status field.
	ErrStatusRequired = errors.New("node status is required")

	// ErrDataRequired indicates a transfer request without a data payload.
	ErrDataRequired = errors.New("data payload is required")

	// ErrActionRequired indicates a manual interaction without an action.
	ErrActionRequired = errors.New("action is required (approve, reject, or input)")

	// ErrInvalidAction indicates a manual interaction with an unknown action.
	ErrInvalidAction = errors.New("invalid action: must be approve, reject, or input")

	// ErrInputRequired indicates an input action without input data.
	ErrInputRequired = errors.New("input data is required for input action")
)

// NodeError wraps a node lookup failure with the identifiers involved. Role
// distinguishes the two sides of a transfer in the error message.
type NodeError struct {
	ExecutionID string
	NodeID      string
	Role        string // "source" or "target" on transfer paths, empty otherwise
	Err         error
}

func (e *NodeError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("%s node %s not found in execution %s", e.Role, e.NodeID, e.ExecutionID)
	}

	return fmt.Sprintf("node %s not found in execution %s", e.NodeID, e.ExecutionID)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func (e *NodeError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newNodeError(executionID, nodeID, role string) *NodeError {
	return &NodeError{
		ExecutionID: executionID,
		NodeID:      nodeID,
		Role:        role,
		Err:         ErrNodeNotFound,
	}
}

// IsExecutionNotFound checks if an error indicates a missing execution.
func IsExecutionNotFound(err error) bool {
	return errors.Is(err, ErrExecutionNotFound)
}

// IsNodeNotFound checks if an error indicates a missing node.
func IsNodeNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound)
}

// IsValidationError checks if an error is a caller error that should map to
// HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrStatusRequired) ||
		errors.Is(err, ErrDataRequired) ||
		errors.Is(err, ErrActionRequired) ||
		errors.Is(err, ErrInvalidAction) ||
		errors.Is(err, ErrInputRequired)
}
