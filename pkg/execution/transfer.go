package execution

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nodeloom/nodeloom/pkg/events"
	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
)

// TransferReceipt confirms a recorded data transfer.
type TransferReceipt struct {
	TransferID string `json:"transferId"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// TransferData records a one-shot payload delivery from a source node's
// output to a target node's input. Both nodes must already exist in the
// execution's node mapping; this path never creates executions or nodes.
// The transfer does not alter either node's top-level status.
func (r *Registry) TransferData(ctx context.Context, executionID, sourceNodeID, targetNodeID string, payload map[string]any) (*TransferReceipt, error) {
	ctx, span := r.startSpan(ctx, "execution.transfer_data", executionID, "")
	span.SetAttributes(
		attribute.String(otelhelper.SourceNodeIDKey, sourceNodeID),
		attribute.String(otelhelper.TargetNodeIDKey, targetNodeID),
	)

	defer span.End()

	data, ok := payload["data"]
	if !ok {
		otelhelper.SetError(span, ErrDataRequired)

		return nil, ErrDataRequired
	}

	now := r.now()

	r.mu.Lock()

	exec, ok := r.executions[executionID]
	if !ok {
		r.mu.Unlock()
		otelhelper.SetError(span, ErrExecutionNotFound)

		return nil, ErrExecutionNotFound
	}

	source, ok := exec.Nodes[sourceNodeID]
	if !ok {
		r.mu.Unlock()

		err := newNodeError(executionID, sourceNodeID, "source")
		otelhelper.SetError(span, err)

		return nil, err
	}

	target, ok := exec.Nodes[targetNodeID]
	if !ok {
		r.mu.Unlock()

		err := newNodeError(executionID, targetNodeID, "target")
		otelhelper.SetError(span, err)

		return nil, err
	}

	// Random identifiers instead of clock-derived ones; concurrent transfers
	// within the same second must not collide.
	transferID := "transfer-" + uuid.New().String()

	if source.Outputs == nil {
		source.Outputs = make(map[string]*models.TransferStub)
	}

	source.Outputs[targetNodeID] = &models.TransferStub{
		TransferID: transferID,
		Timestamp:  now,
		Status:     "sent",
	}

	if target.Inputs == nil {
		target.Inputs = make(map[string]*models.TransferStub)
	}

	target.Inputs[sourceNodeID] = &models.TransferStub{
		TransferID: transferID,
		Timestamp:  now,
		Status:     "received",
		Data:       data,
	}

	r.mu.Unlock()

	span.SetAttributes(attribute.String(otelhelper.TransferIDKey, transferID))

	r.logger.DebugContext(ctx, "Recorded data transfer",
		"execution_id", executionID, "source_node_id", sourceNodeID,
		"target_node_id", targetNodeID, "transfer_id", transferID)

	r.publish(ctx, executionID, events.TransferRecorded{
		BaseEvent:    events.NewBaseEvent(events.TransferRecordedEvent, executionID),
		TransferID:   transferID,
		SourceNodeID: sourceNodeID,
		TargetNodeID: targetNodeID,
	})

	return &TransferReceipt{
		TransferID: transferID,
		Status:     "completed",
		Message:    fmt.Sprintf("Data transferred from %s to %s", sourceNodeID, targetNodeID),
	}, nil
}
