package models

import "time"

// Model is an LLM model definition available to agents and llm nodes.
type Model struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Provider      string         `json:"provider"`
	ModelID       string         `json:"modelId"`
	Version       string         `json:"version"`
	Capabilities  []string       `json:"capabilities,omitempty"`
	ContextWindow int            `json:"contextWindow"`
	MaxTokens     int            `json:"maxTokens"`
	APIEndpoint   string         `json:"apiEndpoint,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// ModelResponse is the synthesized completion returned by the model execute
// endpoint.
type ModelResponse struct {
	ID         string         `json:"id"`
	ModelID    int            `json:"modelId"`
	Model      string         `json:"model"`
	Provider   string         `json:"provider"`
	Timestamp  time.Time      `json:"timestamp"`
	Input      string         `json:"input"`
	Output     string         `json:"output"`
	Usage      TokenUsage     `json:"usage"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// TokenUsage is a rough simulated token accounting.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}
