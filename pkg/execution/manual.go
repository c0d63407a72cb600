package execution

import (
	"context"
	"fmt"
	"strings"

	"github.com/nodeloom/nodeloom/pkg/events"
	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
)

// Manual action names, matched case-insensitively.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionInput   = "input"
)

// ManualActionResult is the outcome of a manual interaction, including the
// node record after the transition.
type ManualActionResult struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Node    *models.NodeState `json:"node"`
}

// ApplyManualAction applies a human decision to a node. Each call fully
// overwrites the node's status and userAction regardless of prior state;
// there is no eligibility check (approving a rejected node is permitted).
// Validation happens before any mutation, so a rejected request leaves the
// node record untouched.
func (r *Registry) ApplyManualAction(ctx context.Context, executionID, nodeID, action string, data map[string]any) (*ManualActionResult, error) {
	ctx, span := r.startSpan(ctx, "execution.manual_action", executionID, nodeID)
	span.SetAttributes(attribute.String(otelhelper.ActionKey, action))

	defer span.End()

	if action == "" {
		otelhelper.SetError(span, ErrActionRequired)

		return nil, ErrActionRequired
	}

	action = strings.ToLower(action)

	switch action {
	case ActionApprove, ActionReject, ActionInput:
	default:
		otelhelper.SetError(span, ErrInvalidAction)

		return nil, ErrInvalidAction
	}

	now := r.now()

	r.mu.Lock()

	exec, ok := r.executions[executionID]
	if !ok {
		r.mu.Unlock()
		otelhelper.SetError(span, ErrExecutionNotFound)

		return nil, ErrExecutionNotFound
	}

	node, ok := exec.Nodes[nodeID]
	if !ok {
		r.mu.Unlock()

		err := newNodeError(executionID, nodeID, "")
		otelhelper.SetError(span, err)

		return nil, err
	}

	var message string

	switch action {
	case ActionApprove:
		comment, _ := data["comment"].(string)
		node.Status = models.NodeStatusApproved
		node.UserAction = &models.UserAction{
			Type:      "approval",
			Timestamp: now,
			Comment:   comment,
		}
		message = fmt.Sprintf("Node %s has been approved", nodeID)

	case ActionReject:
		reason, _ := data["reason"].(string)
		comment, _ := data["comment"].(string)
		node.Status = models.NodeStatusRejected
		node.UserAction = &models.UserAction{
			Type:      "rejection",
			Timestamp: now,
			Reason:    reason,
			Comment:   comment,
		}
		message = fmt.Sprintf("Node %s has been rejected", nodeID)

	case ActionInput:
		input, ok := data["input"]
		if !ok {
			r.mu.Unlock()
			otelhelper.SetError(span, ErrInputRequired)

			return nil, ErrInputRequired
		}

		node.Status = models.NodeStatusRunning
		node.UserAction = &models.UserAction{
			Type:      "input",
			Timestamp: now,
			Input:     input,
		}
		message = fmt.Sprintf("Input provided for node %s", nodeID)
	}

	node.LastUpdated = now

	snapshot := node.Clone()

	r.mu.Unlock()

	r.logger.DebugContext(ctx, "Applied manual action",
		"execution_id", executionID, "node_id", nodeID, "action", action)

	r.publish(ctx, executionID, events.ManualInteraction{
		BaseEvent: events.NewBaseEvent(events.ManualInteractionEvent, executionID),
		NodeID:    nodeID,
		Action:    action,
		Status:    snapshot.Status,
	})

	return &ManualActionResult{
		Status:  "success",
		Message: message,
		Node:    snapshot,
	}, nil
}
