package models

import "time"

// Agent is a configured autonomous agent definition. Execution is simulated;
// responses are synthesized from the agent's capabilities and personality.
type Agent struct {
	ID               int                `json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description,omitempty"`
	Capabilities     []string           `json:"capabilities"`
	Personality      map[string]float64 `json:"personality,omitempty"`
	KnowledgeDomains []string           `json:"knowledgeDomains,omitempty"`
	ModelID          *int               `json:"modelId,omitempty"`
	SystemPrompt     string             `json:"systemPrompt,omitempty"`
	Status           string             `json:"status"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// AgentResult is the synthesized outcome of a simulated agent run.
type AgentResult struct {
	AgentID     int       `json:"agentId"`
	ExecutionID string    `json:"executionId"`
	Timestamp   time.Time `json:"timestamp"`
	Status      string    `json:"status"`
	Result      struct {
		Content  string         `json:"content"`
		Metadata map[string]any `json:"metadata"`
	} `json:"result"`
}
