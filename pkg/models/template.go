package models

import "time"

// Template is a reusable workflow blueprint. Applying a template creates a
// new draft workflow seeded with the template's nodes and connections.
type Template struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Nodes       []*WorkflowNode `json:"nodes"`
	Connections []*Connection   `json:"connections"`
	Tags        []string        `json:"tags,omitempty"`
	Version     string          `json:"version"`
	Popularity  int             `json:"popularity,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
