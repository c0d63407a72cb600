package execution_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/nodeloom/nodeloom/pkg/eventbus"
	"github.com/nodeloom/nodeloom/pkg/execution"
	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, event eventbus.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return nil
}

func (p *capturingPublisher) captured() []eventbus.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]eventbus.Event(nil), p.events...)
}

func newTestRegistry(opts ...execution.Option) *execution.Registry {
	return execution.NewRegistry(slog.Default(), opts...)
}

func TestRegistry_UpsertNodeStatus_LazilyCreatesExecution(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	ctx := context.Background()

	node, err := registry.UpsertNodeStatus(ctx, "exec-unseen", "n1", map[string]any{"status": "pending"})
	require.NoError(t, err)
	assert.Equal(t, "n1", node.NodeID)
	assert.Equal(t, "pending", node.Status)
	assert.False(t, node.LastUpdated.IsZero())

	state, err := registry.ExecutionState(ctx, "exec-unseen")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusRunning, state.Status)
	assert.False(t, state.StartTime.IsZero())
	assert.Nil(t, state.EndTime)
	require.Contains(t, state.Nodes, "n1")
	assert.Equal(t, "pending", state.Nodes["n1"].Status)
}

func TestRegistry_UpsertNodeStatus_RequiresStatus(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()

	_, err := registry.UpsertNodeStatus(context.Background(), "exec-1", "n1", map[string]any{"progress": 0.5})
	require.Error(t, err)
	assert.ErrorIs(t, err, execution.ErrStatusRequired)
	assert.True(t, execution.IsValidationError(err))

	// A rejected request must not create the execution either.
	_, err = registry.ExecutionState(context.Background(), "exec-1")
	assert.ErrorIs(t, err, execution.ErrExecutionNotFound)
}

func TestRegistry_UpsertNodeStatus_MergesExistingNode(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	registry := newTestRegistry(execution.WithClock(func() time.Time { return current }))
	ctx := context.Background()

	_, err := registry.UpsertNodeStatus(ctx, "exec-1", "n1", map[string]any{"status": "pending"})
	require.NoError(t, err)

	current = current.Add(5 * time.Second)

	node, err := registry.UpsertNodeStatus(ctx, "exec-1", "n1", map[string]any{
		"status":   "running",
		"progress": 0.25,
	})
	require.NoError(t, err)

	assert.Equal(t, "running", node.Status)
	assert.Equal(t, 0.25, node.Extra["progress"])
	assert.Equal(t, current, node.LastUpdated)
}

func TestRegistry_UpsertExecutionState_ReadBackIdentical(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	ctx := context.Background()

	upserted, err := registry.UpsertExecutionState(ctx, "exec-1", map[string]any{
		"status":     "running",
		"workflowId": 42,
		"nodes": map[string]any{
			"n1": map[string]any{"status": "pending"},
		},
	})
	require.NoError(t, err)

	fetched, err := registry.ExecutionState(ctx, "exec-1")
	require.NoError(t, err)
	assert.Equal(t, upserted, fetched)
	assert.Equal(t, 42, fetched.Extra["workflowId"])
}

func TestRegistry_UpsertExecutionState_CompletionMarker(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	registry := newTestRegistry(execution.WithClock(func() time.Time { return current }))
	ctx := context.Background()

	state, err := registry.UpsertExecutionState(ctx, "exec-1", map[string]any{"status": "running"})
	require.NoError(t, err)
	assert.Nil(t, state.EndTime)

	current = current.Add(time.Minute)

	state, err = registry.UpsertExecutionState(ctx, "exec-1", map[string]any{"status": "completed"})
	require.NoError(t, err)
	require.NotNil(t, state.EndTime)
	assert.Equal(t, current, *state.EndTime)

	// Repeated completion re-stamps but never clears the marker.
	current = current.Add(time.Minute)

	state, err = registry.UpsertExecutionState(ctx, "exec-1", map[string]any{"status": "completed"})
	require.NoError(t, err)
	require.NotNil(t, state.EndTime)
	assert.Equal(t, current, *state.EndTime)

	// A later status change does not clear the end time.
	state, err = registry.UpsertExecutionState(ctx, "exec-1", map[string]any{"status": "running"})
	require.NoError(t, err)
	assert.NotNil(t, state.EndTime)
	assert.Equal(t, "running", state.Status)
}

func TestRegistry_UpsertExecutionState_LazyCreateWithStatus(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()

	state, err := registry.UpsertExecutionState(context.Background(), "exec-1", map[string]any{"status": "failed"})
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusFailed, state.Status)
	assert.NotNil(t, state.EndTime)
	assert.Empty(t, state.Nodes)
}

func TestRegistry_UpsertExecutionState_NodeBulkUpdate(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	registry := newTestRegistry(execution.WithClock(func() time.Time { return current }))
	ctx := context.Background()

	_, err := registry.UpsertNodeStatus(ctx, "exec-1", "n1", map[string]any{"status": "running"})
	require.NoError(t, err)

	created := current
	current = current.Add(10 * time.Second)

	state, err := registry.UpsertExecutionState(ctx, "exec-1", map[string]any{
		"nodes": map[string]any{
			"n1": map[string]any{"progress": 0.9},
			"n2": map[string]any{},
		},
	})
	require.NoError(t, err)

	// Existing nodes merge without an automatic lastUpdated refresh.
	require.Contains(t, state.Nodes, "n1")
	assert.Equal(t, "running", state.Nodes["n1"].Status)
	assert.Equal(t, 0.9, state.Nodes["n1"].Extra["progress"])
	assert.Equal(t, created, state.Nodes["n1"].LastUpdated)

	// New nodes default to pending and are stamped now.
	require.Contains(t, state.Nodes, "n2")
	assert.Equal(t, models.NodeStatusPending, state.Nodes["n2"].Status)
	assert.Equal(t, current, state.Nodes["n2"].LastUpdated)
}

func TestRegistry_ExecutionState_NotFound(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()

	_, err := registry.ExecutionState(context.Background(), "missing")
	assert.ErrorIs(t, err, execution.ErrExecutionNotFound)
	assert.True(t, execution.IsExecutionNotFound(err))
}

func TestRegistry_NodeStatus_NotFound(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	ctx := context.Background()

	_, err := registry.NodeStatus(ctx, "missing", "n1")
	assert.ErrorIs(t, err, execution.ErrExecutionNotFound)

	_, err = registry.UpsertNodeStatus(ctx, "exec-1", "n1", map[string]any{"status": "pending"})
	require.NoError(t, err)

	_, err = registry.NodeStatus(ctx, "exec-1", "other")
	assert.ErrorIs(t, err, execution.ErrNodeNotFound)
	assert.True(t, execution.IsNodeNotFound(err))
}

func TestRegistry_PublishesLifecycleEvents(t *testing.T) {
	t.Parallel()

	publisher := &capturingPublisher{}
	registry := newTestRegistry(execution.WithPublisher(publisher))
	ctx := context.Background()

	_, err := registry.UpsertNodeStatus(ctx, "exec-1", "n1", map[string]any{"status": "pending"})
	require.NoError(t, err)

	_, err = registry.UpsertExecutionState(ctx, "exec-1", map[string]any{"status": "completed"})
	require.NoError(t, err)

	var types []string
	for _, event := range publisher.captured() {
		types = append(types, string(event.GetType()))
	}

	assert.Contains(t, types, "node.status.updated")
	assert.Contains(t, types, "execution.updated")
	assert.Contains(t, types, "execution.completed")
}

func TestRegistry_ConcurrentNodeUpserts(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	ctx := context.Background()

	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			nodeID := string(rune('a' + n%5))
			_, err := registry.UpsertNodeStatus(ctx, "exec-concurrent", nodeID, map[string]any{"status": "running"})
			assert.NoError(t, err)
		}(i)
	}

	wg.Wait()

	state, err := registry.ExecutionState(ctx, "exec-concurrent")
	require.NoError(t, err)
	assert.Len(t, state.Nodes, 5)
}
