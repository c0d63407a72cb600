package models

import "time"

// Workflow status values used by the editor.
const (
	WorkflowStatusDraft    = "draft"
	WorkflowStatusActive   = "active"
	WorkflowStatusArchived = "archived"
)

// Workflow is a node graph as edited in the visual canvas.
type Workflow struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Nodes       []*WorkflowNode  `json:"nodes"`
	Connections []*Connection    `json:"connections"`
	Status      string           `json:"status"`
	Version     string           `json:"version"`
	TemplateID  *int             `json:"templateId,omitempty"`
	Metadata    map[string]any   `json:"metadata,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	CreatedBy   int              `json:"createdBy,omitempty"`
}

// Clone returns a deep copy of the workflow.
func (w *Workflow) Clone() *Workflow {
	clone := *w

	clone.Nodes = make([]*WorkflowNode, 0, len(w.Nodes))
	for _, node := range w.Nodes {
		nodeCopy := *node
		nodeCopy.Data = make(map[string]any, len(node.Data))

		for k, v := range node.Data {
			nodeCopy.Data[k] = v
		}

		clone.Nodes = append(clone.Nodes, &nodeCopy)
	}

	clone.Connections = make([]*Connection, 0, len(w.Connections))
	for _, conn := range w.Connections {
		connCopy := *conn
		clone.Connections = append(clone.Connections, &connCopy)
	}

	if w.TemplateID != nil {
		templateID := *w.TemplateID
		clone.TemplateID = &templateID
	}

	if w.Metadata != nil {
		clone.Metadata = make(map[string]any, len(w.Metadata))
		for k, v := range w.Metadata {
			clone.Metadata[k] = v
		}
	}

	return &clone
}

// WorkflowNode is a single step on the canvas.
type WorkflowNode struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Position Position       `json:"position"`
	Data     map[string]any `json:"data,omitempty"`
}

// Position is a node's canvas coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Connection is a directed edge between two nodes.
type Connection struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	Target     string `json:"target"`
	SourcePort string `json:"sourcePort,omitempty"`
	TargetPort string `json:"targetPort,omitempty"`
}

// WorkflowExport is the portable envelope produced by the export endpoint and
// accepted back by import.
type WorkflowExport struct {
	FormatVersion string    `json:"formatVersion"`
	ExportedAt    time.Time `json:"exportedAt"`
	Workflow      *Workflow `json:"workflow"`
}
