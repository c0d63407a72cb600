// Package web provides HTTP request and response types for the mock backend API.
package web

// ExecuteWorkflowRequest represents the request body for starting a workflow run.
type ExecuteWorkflowRequest struct {
	Inputs map[string]any `json:"inputs"`
}

// TransferRequest carries the payload for a node-to-node data transfer. The
// data key must be present; a null value is an explicitly empty payload.
type TransferRequest map[string]any

// ManualActionRequest represents the request body for manual node interaction.
type ManualActionRequest struct {
	Action  string `json:"action"`
	Comment string `json:"comment,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Input   any    `json:"input,omitempty"`
}

// ExecuteAgentRequest represents the request body for a simulated agent run.
type ExecuteAgentRequest struct {
	Inputs  map[string]any `json:"inputs"`
	Context map[string]any `json:"context"`
}

// ExecuteModelRequest represents the request body for a simulated completion.
type ExecuteModelRequest struct {
	Input      string         `json:"input"      validate:"required"`
	Parameters map[string]any `json:"parameters"`
}

// ApplyTemplateRequest customizes the workflow created from a template.
type ApplyTemplateRequest struct {
	Name           string         `json:"name,omitempty"`
	Description    string         `json:"description,omitempty"`
	Customizations map[string]any `json:"customizations,omitempty"`
}

// CreateConnectionRequest represents the request body for adding a connection.
type CreateConnectionRequest struct {
	Source     string `json:"source"     validate:"required"`
	Target     string `json:"target"     validate:"required"`
	SourcePort string `json:"sourcePort"`
	TargetPort string `json:"targetPort"`
}
