package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionState_MarshalJSON_FlattensExtra(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	state := NewExecutionState("exec-1", ExecutionStatusRunning, start)
	state.Apply(map[string]any{
		"workflowId": float64(7),
		"progress":   0.5,
	})

	data, err := json.Marshal(state)
	require.NoError(t, err)

	var out map[string]any

	err = json.Unmarshal(data, &out)
	require.NoError(t, err)

	assert.Equal(t, "exec-1", out["executionId"])
	assert.Equal(t, "running", out["status"])
	assert.Equal(t, float64(7), out["workflowId"])
	assert.Equal(t, 0.5, out["progress"])
	assert.NotContains(t, out, "endTime")
	assert.NotContains(t, out, "Extra")
}

func TestExecutionState_UnmarshalJSON_PreservesUnknownFields(t *testing.T) {
	payload := []byte(`{
		"executionId": "exec-2",
		"status": "completed",
		"startTime": "2026-03-01T10:00:00Z",
		"endTime": "2026-03-01T10:05:00Z",
		"nodes": {"n1": {"nodeId": "n1", "status": "running", "lastUpdated": "2026-03-01T10:01:00Z", "attempts": 3}},
		"triggeredBy": "scheduler"
	}`)

	var state ExecutionState

	err := json.Unmarshal(payload, &state)
	require.NoError(t, err)

	assert.Equal(t, "exec-2", state.ExecutionID)
	assert.Equal(t, ExecutionStatusCompleted, state.Status)
	require.NotNil(t, state.EndTime)
	assert.Equal(t, "scheduler", state.Extra["triggeredBy"])

	node := state.Nodes["n1"]
	require.NotNil(t, node)
	assert.Equal(t, ExecutionStatusRunning, node.Status)
	assert.Equal(t, float64(3), node.Extra["attempts"])
}

func TestExecutionState_Apply_SkipsSystemFields(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	state := NewExecutionState("exec-3", "", start)

	state.Apply(map[string]any{
		"executionId": "hijacked",
		"startTime":   "2020-01-01T00:00:00Z",
		"nodes":       map[string]any{"bogus": true},
		"status":      ExecutionStatusFailed,
		"error":       "boom",
	})

	assert.Equal(t, "exec-3", state.ExecutionID)
	assert.Equal(t, start, state.StartTime)
	assert.Empty(t, state.Nodes)
	assert.Equal(t, ExecutionStatusFailed, state.Status)
	assert.Equal(t, "boom", state.Extra["error"])
}

func TestExecutionState_Clone_Independent(t *testing.T) {
	now := time.Now()
	state := NewExecutionState("exec-4", ExecutionStatusRunning, now)
	state.Nodes["n1"] = NewNodeState("n1", NodeStatusPending, now)
	state.Nodes["n1"].Inputs = map[string]*TransferStub{
		"n0": {TransferID: "transfer-abc", Timestamp: now, Status: "received", Data: "hi"},
	}
	state.Apply(map[string]any{"progress": 0.1})

	clone := state.Clone()

	clone.Status = ExecutionStatusFailed
	clone.Nodes["n1"].Status = NodeStatusRejected
	clone.Nodes["n1"].Inputs["n0"].Status = "lost"
	clone.Extra["progress"] = 0.9

	assert.Equal(t, ExecutionStatusRunning, state.Status)
	assert.Equal(t, NodeStatusPending, state.Nodes["n1"].Status)
	assert.Equal(t, "received", state.Nodes["n1"].Inputs["n0"].Status)
	assert.Equal(t, 0.1, state.Extra["progress"])
}

func TestNodeState_Apply_SkipsSystemFields(t *testing.T) {
	now := time.Now()
	node := NewNodeState("n1", "", now)
	node.UserAction = &UserAction{Type: "approval", Timestamp: now}

	node.Apply(map[string]any{
		"nodeId":     "other",
		"userAction": map[string]any{"type": "rejection"},
		"status":     NodeStatusApproved,
		"output":     "value",
	})

	assert.Equal(t, "n1", node.NodeID)
	assert.Equal(t, "approval", node.UserAction.Type)
	assert.Equal(t, NodeStatusApproved, node.Status)
	assert.Equal(t, "value", node.Extra["output"])
}
