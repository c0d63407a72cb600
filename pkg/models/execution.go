// Package models defines the core domain models for the Nodeloom mock
// orchestration backend.
package models

import (
	"encoding/json"
	"time"
)

// Execution status values with special semantics. The status field itself is
// caller-extensible; only completed and failed carry an end-time stamp.
const (
	ExecutionStatusRunning   = "running"
	ExecutionStatusCompleted = "completed"
	ExecutionStatusFailed    = "failed"
)

// Node status values assigned by the system. Callers may use any other tag.
const (
	NodeStatusPending  = "pending"
	NodeStatusRunning  = "running"
	NodeStatusApproved = "approved"
	NodeStatusRejected = "rejected"
)

// ExecutionState is one invocation of a workflow. Besides the canonical
// fields, callers may attach arbitrary top-level metadata which is preserved
// verbatim in Extra and flattened back on serialization.
type ExecutionState struct {
	ExecutionID string
	Status      string
	StartTime   time.Time
	EndTime     *time.Time
	Nodes       map[string]*NodeState
	Extra       map[string]any
}

// NodeState is the tracked status of a single node within one execution.
type NodeState struct {
	NodeID      string
	Status      string
	LastUpdated time.Time
	Outputs     map[string]*TransferStub
	Inputs      map[string]*TransferStub
	UserAction  *UserAction
	Extra       map[string]any
}

// TransferStub records one side of a data transfer between two nodes. The
// sending side carries status "sent"; the receiving side carries "received"
// plus the delivered payload.
type TransferStub struct {
	TransferID string    `json:"transferId"`
	Timestamp  time.Time `json:"timestamp"`
	Status     string    `json:"status"`
	Data       any       `json:"data,omitempty"`
}

// UserAction records the last manual interaction applied to a node.
type UserAction struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Comment   string    `json:"comment,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Input     any       `json:"input,omitempty"`
}

// NewExecutionState creates a fresh execution with an empty node map.
func NewExecutionState(executionID, status string, startTime time.Time) *ExecutionState {
	if status == "" {
		status = ExecutionStatusRunning
	}

	return &ExecutionState{
		ExecutionID: executionID,
		Status:      status,
		StartTime:   startTime,
		Nodes:       make(map[string]*NodeState),
	}
}

// Apply shallow-merges caller-supplied top-level fields into the execution,
// last write wins per key. The identity and lifecycle fields (executionId,
// startTime, endTime) and the nodes map are system-managed and skipped here;
// the registry handles them explicitly.
func (e *ExecutionState) Apply(update map[string]any) {
	for key, value := range update {
		switch key {
		case "status":
			if s, ok := value.(string); ok {
				e.Status = s
			}
		case "executionId", "startTime", "endTime", "nodes":
		default:
			if e.Extra == nil {
				e.Extra = make(map[string]any)
			}

			e.Extra[key] = value
		}
	}
}

// Clone returns a deep copy so callers can serialize a snapshot without
// holding the registry lock.
func (e *ExecutionState) Clone() *ExecutionState {
	clone := &ExecutionState{
		ExecutionID: e.ExecutionID,
		Status:      e.Status,
		StartTime:   e.StartTime,
		Nodes:       make(map[string]*NodeState, len(e.Nodes)),
		Extra:       cloneMap(e.Extra),
	}

	if e.EndTime != nil {
		endTime := *e.EndTime
		clone.EndTime = &endTime
	}

	for nodeID, node := range e.Nodes {
		clone.Nodes[nodeID] = node.Clone()
	}

	return clone
}

func (e *ExecutionState) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+5)
	for key, value := range e.Extra {
		out[key] = value
	}

	out["executionId"] = e.ExecutionID
	out["status"] = e.Status
	out["startTime"] = e.StartTime

	if e.EndTime != nil {
		out["endTime"] = *e.EndTime
	}

	nodes := e.Nodes
	if nodes == nil {
		nodes = map[string]*NodeState{}
	}

	out["nodes"] = nodes

	return json.Marshal(out)
}

func (e *ExecutionState) UnmarshalJSON(data []byte) error {
	type canonical struct {
		ExecutionID string                `json:"executionId"`
		Status      string                `json:"status"`
		StartTime   time.Time             `json:"startTime"`
		EndTime     *time.Time            `json:"endTime"`
		Nodes       map[string]*NodeState `json:"nodes"`
	}

	var known canonical
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	e.ExecutionID = known.ExecutionID
	e.Status = known.Status
	e.StartTime = known.StartTime
	e.EndTime = known.EndTime
	e.Nodes = known.Nodes
	e.Extra = nil

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, value := range raw {
		switch key {
		case "executionId", "status", "startTime", "endTime", "nodes":
			continue
		}

		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}

		if e.Extra == nil {
			e.Extra = make(map[string]any)
		}

		e.Extra[key] = decoded
	}

	return nil
}

// NewNodeState creates a node record with the given status tag.
func NewNodeState(nodeID, status string, now time.Time) *NodeState {
	if status == "" {
		status = NodeStatusPending
	}

	return &NodeState{
		NodeID:      nodeID,
		Status:      status,
		LastUpdated: now,
	}
}

// Apply shallow-merges caller-supplied fields into the node record, last
// write wins per key. Transfer stubs, the user action and the timestamps are
// system-managed and only change through their dedicated operations.
func (n *NodeState) Apply(update map[string]any) {
	for key, value := range update {
		switch key {
		case "status":
			if s, ok := value.(string); ok {
				n.Status = s
			}
		case "nodeId", "lastUpdated", "outputs", "inputs", "userAction":
		default:
			if n.Extra == nil {
				n.Extra = make(map[string]any)
			}

			n.Extra[key] = value
		}
	}
}

// Clone returns a deep copy of the node record.
func (n *NodeState) Clone() *NodeState {
	clone := &NodeState{
		NodeID:      n.NodeID,
		Status:      n.Status,
		LastUpdated: n.LastUpdated,
		Extra:       cloneMap(n.Extra),
	}

	if n.Outputs != nil {
		clone.Outputs = make(map[string]*TransferStub, len(n.Outputs))
		for target, stub := range n.Outputs {
			stubCopy := *stub
			clone.Outputs[target] = &stubCopy
		}
	}

	if n.Inputs != nil {
		clone.Inputs = make(map[string]*TransferStub, len(n.Inputs))
		for source, stub := range n.Inputs {
			stubCopy := *stub
			clone.Inputs[source] = &stubCopy
		}
	}

	if n.UserAction != nil {
		action := *n.UserAction
		clone.UserAction = &action
	}

	return clone
}

func (n *NodeState) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Extra)+6)
	for key, value := range n.Extra {
		out[key] = value
	}

	out["nodeId"] = n.NodeID
	out["status"] = n.Status
	out["lastUpdated"] = n.LastUpdated

	if n.Outputs != nil {
		out["outputs"] = n.Outputs
	}

	if n.Inputs != nil {
		out["inputs"] = n.Inputs
	}

	if n.UserAction != nil {
		out["userAction"] = n.UserAction
	}

	return json.Marshal(out)
}

func (n *NodeState) UnmarshalJSON(data []byte) error {
	type canonical struct {
		NodeID      string                   `json:"nodeId"`
		Status      string                   `json:"status"`
		LastUpdated time.Time                `json:"lastUpdated"`
		Outputs     map[string]*TransferStub `json:"outputs"`
		Inputs      map[string]*TransferStub `json:"inputs"`
		UserAction  *UserAction              `json:"userAction"`
	}

	var known canonical
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	n.NodeID = known.NodeID
	n.Status = known.Status
	n.LastUpdated = known.LastUpdated
	n.Outputs = known.Outputs
	n.Inputs = known.Inputs
	n.UserAction = known.UserAction
	n.Extra = nil

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, value := range raw {
		switch key {
		case "nodeId", "status", "lastUpdated", "outputs", "inputs", "userAction":
			continue
		}

		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}

		if n.Extra == nil {
			n.Extra = make(map[string]any)
		}

		n.Extra[key] = decoded
	}

	return nil
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}

	return dst
}
