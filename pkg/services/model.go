package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/persistence"
)

// ErrModelNotFound is returned when a model is not found.
var ErrModelNotFound = persistence.ErrModelNotFound

type Model struct {
	persistence persistence.Persistence
	now         func() time.Time
}

// NewModel creates a new model service.
func NewModel(persistence persistence.Persistence) *Model {
	return &Model{
		persistence: persistence,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (m *Model) ListModels(ctx context.Context) ([]*models.Model, error) {
	return m.persistence.Models().List(ctx)
}

func (m *Model) GetModel(ctx context.Context, id int) (*models.Model, error) {
	return m.persistence.Models().GetByID(ctx, id)
}

func (m *Model) CreateModel(ctx context.Context, model *models.Model) (*models.Model, error) {
	if model.Name == "" {
		return nil, ErrModelNameRequired
	}

	if model.Provider == "" {
		return nil, ErrProviderRequired
	}

	if model.ModelID == "" {
		return nil, ErrModelIDRequired
	}

	if model.Version == "" {
		model.Version = "1.0"
	}

	if model.ContextWindow == 0 {
		model.ContextWindow = 4000
	}

	if model.MaxTokens == 0 {
		model.MaxTokens = 1000
	}

	if model.Status == "" {
		model.Status = "active"
	}

	now := m.now()
	model.CreatedAt = now
	model.UpdatedAt = now

	return m.persistence.Models().Create(ctx, model)
}

// UpdateModel replaces a model's mutable fields, preserving the stored ID
// and creation timestamp.
func (m *Model) UpdateModel(ctx context.Context, id int, model *models.Model) (*models.Model, error) {
	existing, err := m.persistence.Models().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	model.ID = existing.ID
	model.CreatedAt = existing.CreatedAt
	model.UpdatedAt = m.now()

	return m.persistence.Models().Update(ctx, id, model)
}

// DeleteModel removes a model unless an agent still references it.
func (m *Model) DeleteModel(ctx context.Context, id int) error {
	if _, err := m.persistence.Models().GetByID(ctx, id); err != nil {
		return err
	}

	agents, err := m.persistence.Agents().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check model references: %w", err)
	}

	for _, agent := range agents {
		if agent.ModelID != nil && *agent.ModelID == id {
			return &ModelInUseError{
				ModelID:   id,
				AgentID:   agent.ID,
				AgentName: agent.Name,
			}
		}
	}

	return m.persistence.Models().Delete(ctx, id)
}

// ExecuteModel simulates a completion request against the model.
func (m *Model) ExecuteModel(ctx context.Context, id int, input string, parameters map[string]any) (*models.ModelResponse, error) {
	if input == "" {
		return nil, ErrInputRequired
	}

	model, err := m.persistence.Models().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]any, len(model.Parameters)+len(parameters))
	for k, v := range model.Parameters {
		merged[k] = v
	}

	for k, v := range parameters {
		merged[k] = v
	}

	promptTokens := len(strings.Fields(input))

	return &models.ModelResponse{
		ID:        "resp-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8],
		ModelID:   model.ID,
		Model:     model.ModelID,
		Provider:  model.Provider,
		Timestamp: m.now(),
		Input:     truncate(input, 100),
		Output: fmt.Sprintf(
			"This is a simulated response from %s by %s.\n\n"+
				"The model would process the input: '%s...' and generate a coherent "+
				"response based on its capabilities.",
			model.Name, model.Provider, head(input, 50)),
		Usage: models.TokenUsage{
			PromptTokens:     promptTokens,
			CompletionTokens: 50,
			TotalTokens:      promptTokens + 50,
		},
		Parameters: merged,
	}, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[:limit] + "..."
}

func head(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[:limit]
}
