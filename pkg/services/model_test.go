package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/persistence"
	"github.com/nodeloom/nodeloom/pkg/persistence/memory"
)

func newModelService() (*Model, *memory.Persistence) {
	store := memory.NewPersistence()

	return NewModel(store), store
}

func TestCreateModelValidation(t *testing.T) {
	ctx := context.Background()
	service, _ := newModelService()

	cases := []struct {
		name  string
		model *models.Model
		want  error
	}{
		{"missing name", &models.Model{Provider: "openai", ModelID: "gpt-4"}, ErrModelNameRequired},
		{"missing provider", &models.Model{Name: "GPT-4", ModelID: "gpt-4"}, ErrProviderRequired},
		{"missing model id", &models.Model{Name: "GPT-4", Provider: "openai"}, ErrModelIDRequired},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.CreateModel(ctx, testCase.model)
			require.ErrorIs(t, err, testCase.want)
		})
	}
}

func TestCreateModelDefaults(t *testing.T) {
	ctx := context.Background()
	service, _ := newModelService()

	created, err := service.CreateModel(ctx, &models.Model{
		Name:     "GPT-4",
		Provider: "openai",
		ModelID:  "gpt-4",
	})
	require.NoError(t, err)

	assert.Equal(t, "1.0", created.Version)
	assert.Equal(t, 4000, created.ContextWindow)
	assert.Equal(t, 1000, created.MaxTokens)
	assert.Equal(t, "active", created.Status)
}

func TestDeleteModelBlockedWhenReferenced(t *testing.T) {
	ctx := context.Background()
	service, store := newModelService()

	modelID := 1
	store.Seed(nil,
		[]*models.Agent{{ID: 5, Name: "Helper", ModelID: &modelID}},
		[]*models.Model{{ID: 1, Name: "GPT-4", Provider: "openai", ModelID: "gpt-4"}},
		nil)

	err := service.DeleteModel(ctx, 1)
	require.ErrorIs(t, err, ErrModelInUse)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "agent 5 (Helper)")

	_, err = service.GetModel(ctx, 1)
	require.NoError(t, err)
}

func TestDeleteModelUnreferenced(t *testing.T) {
	ctx := context.Background()
	service, store := newModelService()

	store.Seed(nil, nil,
		[]*models.Model{{ID: 1, Name: "GPT-4", Provider: "openai", ModelID: "gpt-4"}},
		nil)

	require.NoError(t, service.DeleteModel(ctx, 1))

	_, err := service.GetModel(ctx, 1)
	assert.True(t, persistence.IsModelNotFound(err))
}

func TestExecuteModel(t *testing.T) {
	ctx := context.Background()
	service, store := newModelService()

	store.Seed(nil, nil, []*models.Model{{
		ID:       1,
		Name:     "GPT-4",
		Provider: "openai",
		ModelID:  "gpt-4",
		Parameters: map[string]any{
			"temperature": 0.7,
			"topP":        1.0,
		},
	}}, nil)

	response, err := service.ExecuteModel(ctx, 1, "Summarize the report",
		map[string]any{"temperature": 0.2})
	require.NoError(t, err)

	assert.Regexp(t, `^resp-[0-9a-f]{8}$`, response.ID)
	assert.Equal(t, "gpt-4", response.Model)
	assert.Equal(t, "openai", response.Provider)
	assert.Contains(t, response.Output, "simulated response from GPT-4 by openai")
	assert.Equal(t, 3, response.Usage.PromptTokens)
	assert.Equal(t, 53, response.Usage.TotalTokens)
	assert.Equal(t, 0.2, response.Parameters["temperature"])
	assert.Equal(t, 1.0, response.Parameters["topP"])
}

func TestExecuteModelTruncatesLongInput(t *testing.T) {
	ctx := context.Background()
	service, store := newModelService()

	store.Seed(nil, nil,
		[]*models.Model{{ID: 1, Name: "GPT-4", Provider: "openai", ModelID: "gpt-4"}},
		nil)

	longInput := strings.Repeat("a", 150)

	response, err := service.ExecuteModel(ctx, 1, longInput, nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 100)+"...", response.Input)
}

func TestExecuteModelRequiresInput(t *testing.T) {
	service, _ := newModelService()

	_, err := service.ExecuteModel(context.Background(), 1, "", nil)
	require.ErrorIs(t, err, ErrInputRequired)
}
