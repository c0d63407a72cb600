package execution_test

import (
	"context"
	"testing"

	"github.com/nodeloom/nodeloom/pkg/execution"
	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ApplyManualAction_Approve(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	ctx := context.Background()

	seedExecution(t, registry, "exec-1", "n1")

	result, err := registry.ApplyManualAction(ctx, "exec-1", "n1", "approve", map[string]any{"comment": "ok"})
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	assert.Contains(t, result.Message, "approved")
	require.NotNil(t, result.Node)
	assert.Equal(t, models.NodeStatusApproved, result.Node.Status)
	require.NotNil(t, result.Node.UserAction)
	assert.Equal(t, "approval", result.Node.UserAction.Type)
	assert.Equal(t, "ok", result.Node.UserAction.Comment)
}

func TestRegistry_ApplyManualAction_RejectOverwritesApproval(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	ctx := context.Background()

	seedExecution(t, registry, "exec-1", "n1")

	_, err := registry.ApplyManualAction(ctx, "exec-1", "n1", "approve", map[string]any{"comment": "ok"})
	require.NoError(t, err)

	// No eligibility check: rejecting an approved node is permitted and fully
	// overwrites the previous action.
	result, err := registry.ApplyManualAction(ctx, "exec-1", "n1", "reject", map[string]any{"reason": "changed my mind"})
	require.NoError(t, err)

	assert.Equal(t, models.NodeStatusRejected, result.Node.Status)
	assert.Equal(t, "rejection", result.Node.UserAction.Type)
	assert.Equal(t, "changed my mind", result.Node.UserAction.Reason)
	assert.Empty(t, result.Node.UserAction.Comment)
}

func TestRegistry_ApplyManualAction_Input(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	ctx := context.Background()

	seedExecution(t, registry, "exec-1", "n1")

	result, err := registry.ApplyManualAction(ctx, "exec-1", "n1", "input", map[string]any{
		"input": map[string]any{"answer": "42"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.NodeStatusRunning, result.Node.Status)
	assert.Equal(t, "input", result.Node.UserAction.Type)
	assert.Equal(t, map[string]any{"answer": "42"}, result.Node.UserAction.Input)
}

func TestRegistry_ApplyManualAction_InputRequiresData(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	ctx := context.Background()

	seedExecution(t, registry, "exec-1", "n1")

	before, err := registry.NodeStatus(ctx, "exec-1", "n1")
	require.NoError(t, err)

	_, err = registry.ApplyManualAction(ctx, "exec-1", "n1", "input", map[string]any{})
	require.ErrorIs(t, err, execution.ErrInputRequired)
	assert.True(t, execution.IsValidationError(err))

	// The rejected action left the node record untouched.
	after, err := registry.NodeStatus(ctx, "exec-1", "n1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRegistry_ApplyManualAction_CaseInsensitive(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	ctx := context.Background()

	seedExecution(t, registry, "exec-1", "n1")

	result, err := registry.ApplyManualAction(ctx, "exec-1", "n1", "APPROVE", nil)
	require.NoError(t, err)
	assert.Equal(t, models.NodeStatusApproved, result.Node.Status)
}

func TestRegistry_ApplyManualAction_Validation(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	ctx := context.Background()

	seedExecution(t, registry, "exec-1", "n1")

	tests := []struct {
		name        string
		executionID string
		nodeID      string
		action      string
		wantErr     error
	}{
		{"missing action", "exec-1", "n1", "", execution.ErrActionRequired},
		{"unknown action", "exec-1", "n1", "escalate", execution.ErrInvalidAction},
		{"missing execution", "missing", "n1", "approve", execution.ErrExecutionNotFound},
		{"missing node", "exec-1", "ghost", "approve", execution.ErrNodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := registry.ApplyManualAction(ctx, tt.executionID, tt.nodeID, tt.action, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
