package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflow_Clone_Independent(t *testing.T) {
	templateID := 4
	original := &Workflow{
		ID:          1,
		Name:        "Pipeline",
		Status:      WorkflowStatusActive,
		Version:     "1.0",
		TemplateID:  &templateID,
		Metadata:    map[string]any{"tags": []string{"etl"}},
		CreatedAt:   time.Now(),
		Nodes:       []*WorkflowNode{
			{ID: "n1", Type: "agent", Position: Position{X: 100, Y: 200}, Data: map[string]any{"agentId": 1}},
		},
		Connections: []*Connection{
			{ID: "c1", Source: "n1", Target: "n2"},
		},
	}

	clone := original.Clone()

	clone.Name = "Copy"
	clone.Nodes[0].Data["agentId"] = 99
	clone.Connections[0].Target = "n9"
	*clone.TemplateID = 7
	clone.Metadata["tags"] = []string{"changed"}

	assert.Equal(t, "Pipeline", original.Name)
	assert.Equal(t, 1, original.Nodes[0].Data["agentId"])
	assert.Equal(t, "n2", original.Connections[0].Target)
	assert.Equal(t, 4, *original.TemplateID)
	assert.Equal(t, []string{"etl"}, original.Metadata["tags"])
}

func TestWorkflow_Clone_EmptyGraph(t *testing.T) {
	original := &Workflow{ID: 2, Name: "Empty", Status: WorkflowStatusDraft}

	clone := original.Clone()
	require.NotNil(t, clone)

	assert.Empty(t, clone.Nodes)
	assert.Empty(t, clone.Connections)
	assert.Nil(t, clone.TemplateID)
	assert.Nil(t, clone.Metadata)
}
