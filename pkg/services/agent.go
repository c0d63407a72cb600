package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/persistence"
)

// ErrAgentNotFound is returned when an agent is not found.
var ErrAgentNotFound = persistence.ErrAgentNotFound

type Agent struct {
	persistence persistence.Persistence
	now         func() time.Time
}

// NewAgent creates a new agent service.
func NewAgent(persistence persistence.Persistence) *Agent {
	return &Agent{
		persistence: persistence,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (a *Agent) ListAgents(ctx context.Context) ([]*models.Agent, error) {
	return a.persistence.Agents().List(ctx)
}

func (a *Agent) GetAgent(ctx context.Context, id int) (*models.Agent, error) {
	return a.persistence.Agents().GetByID(ctx, id)
}

func (a *Agent) CreateAgent(ctx context.Context, agent *models.Agent) (*models.Agent, error) {
	if agent.Name == "" {
		return nil, ErrAgentNameRequired
	}

	if len(agent.Capabilities) == 0 {
		return nil, ErrCapabilitiesRequired
	}

	if agent.Status == "" {
		agent.Status = "active"
	}

	now := a.now()
	agent.CreatedAt = now
	agent.UpdatedAt = now

	return a.persistence.Agents().Create(ctx, agent)
}

// UpdateAgent replaces an agent's mutable fields, preserving the stored ID
// and creation timestamp.
func (a *Agent) UpdateAgent(ctx context.Context, id int, agent *models.Agent) (*models.Agent, error) {
	existing, err := a.persistence.Agents().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	agent.ID = existing.ID
	agent.CreatedAt = existing.CreatedAt
	agent.UpdatedAt = a.now()

	return a.persistence.Agents().Update(ctx, id, agent)
}

func (a *Agent) DeleteAgent(ctx context.Context, id int) error {
	return a.persistence.Agents().Delete(ctx, id)
}

// ExecuteAgent simulates a run of the agent and synthesizes a response from
// its capabilities, knowledge domains, and personality.
func (a *Agent) ExecuteAgent(ctx context.Context, id int, inputs map[string]any) (*models.AgentResult, error) {
	agent, err := a.persistence.Agents().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var content strings.Builder

	fmt.Fprintf(&content, "Response from agent '%s' with capabilities: %s",
		agent.Name, strings.Join(agent.Capabilities, ", "))

	if len(agent.KnowledgeDomains) > 0 {
		fmt.Fprintf(&content, "\nI have expertise in: %s",
			strings.Join(agent.KnowledgeDomains, ", "))
	}

	if traits := describeTraits(agent.Personality); len(traits) > 0 {
		fmt.Fprintf(&content, "\nMy personality traits: %s", strings.Join(traits, ", "))
	}

	if query, ok := inputs["query"].(string); ok && query != "" {
		fmt.Fprintf(&content, "\n\nIn response to: '%s'\n", query)
		content.WriteString(
			"I would need more context to provide a meaningful answer to your specific query.")
	}

	result := &models.AgentResult{
		AgentID:     agent.ID,
		ExecutionID: "exec-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8],
		Timestamp:   a.now(),
		Status:      "completed",
	}
	result.Result.Content = content.String()
	result.Result.Metadata = map[string]any{
		"inputTokens":  len(fmt.Sprint(inputs)) / 4,
		"outputTokens": 50,
	}

	return result, nil
}

// describeTraits names the pronounced personality traits, sorted for stable
// output.
func describeTraits(personality map[string]float64) []string {
	names := make([]string, 0, len(personality))
	for name := range personality {
		names = append(names, name)
	}

	slices.Sort(names)

	traits := make([]string, 0, len(names))

	for _, name := range names {
		value := personality[name]

		switch {
		case value > 0.7:
			traits = append(traits, "high "+name)
		case value < 0.3:
			traits = append(traits, "low "+name)
		}
	}

	return traits
}
