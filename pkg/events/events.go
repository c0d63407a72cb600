// Package events defines the execution lifecycle notifications published by
// the execution registry.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries all execution lifecycle events.
const Topic = "nodeloom.executions"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ExecutionUpdatedEvent   EventType = "execution.updated"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"
	NodeStatusUpdatedEvent  EventType = "node.status.updated"
	TransferRecordedEvent   EventType = "transfer.recorded"
	ManualInteractionEvent  EventType = "node.manual.interaction"
)

type BaseEvent struct {
	ID          string         `json:"id"`
	Type        EventType      `json:"type"`
	Timestamp   time.Time      `json:"timestamp"`
	ExecutionID string         `json:"execution_id"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, executionID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		ExecutionID: executionID,
	}
}

// ExecutionUpdated is published whenever an execution record is created or
// its top-level state changes.
type ExecutionUpdated struct {
	BaseEvent

	Status string `json:"status"`
}

func (e ExecutionUpdated) GetType() EventType {
	return ExecutionUpdatedEvent
}

// ExecutionCompleted is published when an execution transitions to completed.
type ExecutionCompleted struct {
	BaseEvent

	EndTime time.Time `json:"end_time"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

// ExecutionFailed is published when an execution transitions to failed.
type ExecutionFailed struct {
	BaseEvent

	EndTime time.Time `json:"end_time"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

// NodeStatusUpdated is published after a node status upsert.
type NodeStatusUpdated struct {
	BaseEvent

	NodeID string `json:"node_id"`
	Status string `json:"status"`
}

func (e NodeStatusUpdated) GetType() EventType {
	return NodeStatusUpdatedEvent
}

// TransferRecorded is published after a data transfer between two nodes.
type TransferRecorded struct {
	BaseEvent

	TransferID   string `json:"transfer_id"`
	SourceNodeID string `json:"source_node_id"`
	TargetNodeID string `json:"target_node_id"`
}

func (e TransferRecorded) GetType() EventType {
	return TransferRecordedEvent
}

// ManualInteraction is published after a human action is applied to a node.
type ManualInteraction struct {
	BaseEvent

	NodeID string `json:"node_id"`
	Action string `json:"action"`
	Status string `json:"status"`
}

func (e ManualInteraction) GetType() EventType {
	return ManualInteractionEvent
}
