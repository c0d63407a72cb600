// Package execution implements the workflow execution-state tracking
// subsystem: per-execution node status records, inter-node data transfers and
// manual human-in-the-loop interactions, all held in a single in-process
// registry.
package execution

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nodeloom/nodeloom/pkg/eventbus"
	"github.com/nodeloom/nodeloom/pkg/events"
	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Registry is the single shared execution-state store. All access is
// serialized behind one mutex; within a request, validation happens before
// any map write so a failed operation never leaves partial state behind.
type Registry struct {
	mu         sync.RWMutex
	executions map[string]*models.ExecutionState

	logger    *slog.Logger
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
	now       func() time.Time
}

// Option configures optional registry collaborators.
type Option func(*Registry)

// WithPublisher makes the registry emit lifecycle events after successful
// mutations. Publication is best-effort; failures are logged, not returned.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(r *Registry) {
		r.publisher = publisher
	}
}

// WithTracer wraps every registry operation in a span.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Registry) {
		r.tracer = tracer
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(logger *slog.Logger, opts ...Option) *Registry {
	r := &Registry{
		executions: make(map[string]*models.ExecutionState),
		logger:     logger,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.tracer == nil {
		r.tracer = noop.NewTracerProvider().Tracer("execution")
	}

	return r
}

// ExecutionState returns a snapshot of the full execution record.
func (r *Registry) ExecutionState(ctx context.Context, executionID string) (*models.ExecutionState, error) {
	_, span := r.startSpan(ctx, "execution.get_state", executionID, "")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	exec, ok := r.executions[executionID]
	if !ok {
		otelhelper.SetError(span, ErrExecutionNotFound)

		return nil, ErrExecutionNotFound
	}

	return exec.Clone(), nil
}

// UpsertExecutionState updates the top-level state of an execution, creating
// it when absent. Status is overwritten if supplied; a completed or failed
// status re-stamps the end time each time it is observed (the end time is
// never cleared by a later status change). All other top-level keys except
// nodes are copied verbatim. Node entries are shallow-merged: existing nodes
// keep their lastUpdated unless the partial data carries one of their
// mergeable fields, new nodes are created as pending.
func (r *Registry) UpsertExecutionState(ctx context.Context, executionID string, update map[string]any) (*models.ExecutionState, error) {
	ctx, span := r.startSpan(ctx, "execution.upsert_state", executionID, "")
	defer span.End()

	now := r.now()

	r.mu.Lock()

	exec, ok := r.executions[executionID]
	if !ok {
		status, _ := update["status"].(string)
		exec = models.NewExecutionState(executionID, status, now)
		r.executions[executionID] = exec

		r.logger.DebugContext(ctx, "Created execution state", "execution_id", executionID, "status", exec.Status)
	}

	newStatus, statusPresent := update["status"].(string)
	if statusPresent {
		exec.Status = newStatus

		if newStatus == models.ExecutionStatusCompleted || newStatus == models.ExecutionStatusFailed {
			endTime := now
			exec.EndTime = &endTime
		}
	}

	exec.Apply(update)

	if rawNodes, ok := update["nodes"].(map[string]any); ok {
		for nodeID, rawNode := range rawNodes {
			partial, ok := rawNode.(map[string]any)
			if !ok {
				continue
			}

			if node, exists := exec.Nodes[nodeID]; exists {
				node.Apply(partial)
			} else {
				status, _ := partial["status"].(string)
				node = models.NewNodeState(nodeID, status, now)
				node.Apply(partial)
				exec.Nodes[nodeID] = node
			}
		}
	}

	snapshot := exec.Clone()

	r.mu.Unlock()

	r.publish(ctx, executionID, events.ExecutionUpdated{
		BaseEvent: events.NewBaseEvent(events.ExecutionUpdatedEvent, executionID),
		Status:    snapshot.Status,
	})

	if statusPresent && snapshot.EndTime != nil {
		switch newStatus {
		case models.ExecutionStatusCompleted:
			r.publish(ctx, executionID, events.ExecutionCompleted{
				BaseEvent: events.NewBaseEvent(events.ExecutionCompletedEvent, executionID),
				EndTime:   *snapshot.EndTime,
			})
		case models.ExecutionStatusFailed:
			r.publish(ctx, executionID, events.ExecutionFailed{
				BaseEvent: events.NewBaseEvent(events.ExecutionFailedEvent, executionID),
				EndTime:   *snapshot.EndTime,
			})
		}
	}

	return snapshot, nil
}

// NodeStatus returns a snapshot of one node's status record.
func (r *Registry) NodeStatus(ctx context.Context, executionID, nodeID string) (*models.NodeState, error) {
	_, span := r.startSpan(ctx, "execution.get_node_status", executionID, nodeID)
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	exec, ok := r.executions[executionID]
	if !ok {
		otelhelper.SetError(span, ErrExecutionNotFound)

		return nil, ErrExecutionNotFound
	}

	node, ok := exec.Nodes[nodeID]
	if !ok {
		err := newNodeError(executionID, nodeID, "")
		otelhelper.SetError(span, err)

		return nil, err
	}

	return node.Clone(), nil
}

// UpsertNodeStatus applies a partial update to one node's status record,
// lazily creating the owning execution and the node itself. Unlike the bulk
// path on UpsertExecutionState, status is mandatory here.
func (r *Registry) UpsertNodeStatus(ctx context.Context, executionID, nodeID string, update map[string]any) (*models.NodeState, error) {
	ctx, span := r.startSpan(ctx, "execution.upsert_node_status", executionID, nodeID)
	defer span.End()

	status, ok := update["status"].(string)
	if !ok || status == "" {
		otelhelper.SetError(span, ErrStatusRequired)

		return nil, ErrStatusRequired
	}

	now := r.now()

	r.mu.Lock()

	exec, ok := r.executions[executionID]
	if !ok {
		exec = models.NewExecutionState(executionID, models.ExecutionStatusRunning, now)
		r.executions[executionID] = exec

		r.logger.DebugContext(ctx, "Created execution state", "execution_id", executionID, "status", exec.Status)
	}

	node, ok := exec.Nodes[nodeID]
	if ok {
		node.Apply(update)
	} else {
		node = models.NewNodeState(nodeID, status, now)
		node.Apply(update)
		exec.Nodes[nodeID] = node
	}

	node.LastUpdated = now

	snapshot := node.Clone()

	r.mu.Unlock()

	r.publish(ctx, executionID, events.NodeStatusUpdated{
		BaseEvent: events.NewBaseEvent(events.NodeStatusUpdatedEvent, executionID),
		NodeID:    nodeID,
		Status:    snapshot.Status,
	})

	return snapshot, nil
}

func (r *Registry) startSpan(ctx context.Context, name, executionID, nodeID string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String(otelhelper.ExecutionIDKey, executionID),
	}
	if nodeID != "" {
		attrs = append(attrs, attribute.String(otelhelper.NodeIDKey, nodeID))
	}

	return otelhelper.StartSpan(ctx, r.tracer, name, attrs...)
}

func (r *Registry) publish(ctx context.Context, key string, event eventbus.Event) {
	if r.publisher == nil {
		return
	}

	if err := r.publisher.Publish(ctx, key, event); err != nil {
		r.logger.WarnContext(ctx, "Failed to publish execution event",
			"event_type", event.GetType(), "error", err)
	}
}
