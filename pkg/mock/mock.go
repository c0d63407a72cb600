// Package mock generates seed data for the backend: a handful of workflows,
// templates derived from them, preset agents, and preset LLM models.
package mock

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/nodeloom/nodeloom/pkg/models"
)

var nodeTypes = []string{
	"agent", "llm", "dataSource", "transform",
	"manualStep", "fileUpload", "conditional",
}

var workflowStatuses = []string{
	models.WorkflowStatusDraft,
	models.WorkflowStatusActive,
	models.WorkflowStatusArchived,
}

var templateCategories = []string{
	"general", "document-processing", "customer-service", "data-analysis",
}

// Workflows builds count workflows with randomized node graphs. Each graph
// has 3 to 8 nodes, mostly-sequential connections plus occasional skips.
func Workflows(count int) []*models.Workflow {
	now := time.Now().UTC()
	workflows := make([]*models.Workflow, 0, count)

	for i := 1; i <= count; i++ {
		nodeCount := 3 + rand.IntN(6)
		nodes := make([]*models.WorkflowNode, 0, nodeCount)

		for j := 1; j <= nodeCount; j++ {
			nodeType := nodeTypes[rand.IntN(len(nodeTypes))]
			node := &models.WorkflowNode{
				ID:   fmt.Sprintf("node-%d-%d", i, j),
				Type: nodeType,
				Position: models.Position{
					X: 50 + rand.IntN(751),
					Y: 50 + rand.IntN(551),
				},
				Data: map[string]any{
					"name":        fmt.Sprintf("%s %d", capitalize(nodeType), j),
					"description": fmt.Sprintf("Mock %s node", nodeType),
				},
			}

			switch nodeType {
			case "agent":
				node.Data["agentId"] = 1 + rand.IntN(3)
			case "llm":
				node.Data["modelId"] = 1 + rand.IntN(4)
			case "manualStep":
				node.Data["instructions"] = "Please review and approve this step"
				node.Data["options"] = []string{"Approve", "Reject", "Request changes"}
			}

			nodes = append(nodes, node)
		}

		connections := make([]*models.Connection, 0, nodeCount)

		for j := 1; j < nodeCount; j++ {
			if rand.Float64() < 0.8 {
				connections = append(connections, &models.Connection{
					ID:     fmt.Sprintf("conn-%d-%d", i, j),
					Source: fmt.Sprintf("node-%d-%d", i, j),
					Target: fmt.Sprintf("node-%d-%d", i, j+1),
				})
			}

			if j > 1 && rand.Float64() < 0.3 {
				target := j + 1 + rand.IntN(nodeCount-j)
				if target != j && target <= nodeCount {
					connections = append(connections, &models.Connection{
						ID:     fmt.Sprintf("conn-%d-%d-extra", i, j),
						Source: fmt.Sprintf("node-%d-%d", i, j),
						Target: fmt.Sprintf("node-%d-%d", i, target),
					})
				}
			}
		}

		workflows = append(workflows, &models.Workflow{
			ID:          i,
			Name:        fmt.Sprintf("Workflow %d", i),
			Description: fmt.Sprintf("Mock workflow %d for testing", i),
			Nodes:       nodes,
			Connections: connections,
			Status:      workflowStatuses[rand.IntN(len(workflowStatuses))],
			Version:     "1.0",
			CreatedAt:   now.AddDate(0, 0, -(1 + rand.IntN(30))),
			UpdatedAt:   now,
			CreatedBy:   1,
		})
	}

	return workflows
}

// Templates derives count templates from the given workflows, cycling through
// the preset categories.
func Templates(count int, workflows []*models.Workflow) []*models.Template {
	now := time.Now().UTC()
	templates := make([]*models.Template, 0, count)

	for i := 1; i <= count && i <= len(workflows); i++ {
		category := templateCategories[i%len(templateCategories)]
		base := workflows[i-1]

		templates = append(templates, &models.Template{
			ID:          i,
			Name:        fmt.Sprintf("Template %d", i),
			Description: fmt.Sprintf("Mock template %d for %s workflows", i, category),
			Category:    category,
			Nodes:       base.Nodes,
			Connections: base.Connections,
			Tags:        []string{"mock", category},
			Version:     "1.0",
			Popularity:  1 + rand.IntN(100),
			CreatedAt:   now.AddDate(0, 0, -(1 + rand.IntN(30))),
			UpdatedAt:   now,
		})
	}

	return templates
}

type agentPreset struct {
	name             string
	capabilities     []string
	knowledgeDomains []string
	personality      map[string]float64
}

var agentPresets = []agentPreset{
	{
		name:             "Customer Service Agent",
		capabilities:     []string{"textProcessing", "questionAnswering", "sentiment"},
		knowledgeDomains: []string{"customerService", "productKnowledge"},
		personality: map[string]float64{
			"empathy":     0.8,
			"formality":   0.6,
			"creativity":  0.4,
			"precision":   0.7,
			"helpfulness": 0.9,
		},
	},
	{
		name:             "Data Analysis Agent",
		capabilities:     []string{"textProcessing", "dataExtraction", "summarization"},
		knowledgeDomains: []string{"dataAnalysis", "statistics"},
		personality: map[string]float64{
			"empathy":     0.3,
			"formality":   0.7,
			"creativity":  0.3,
			"precision":   0.9,
			"helpfulness": 0.6,
		},
	},
	{
		name:             "Creative Writing Agent",
		capabilities:     []string{"textProcessing", "textGeneration", "sentiment"},
		knowledgeDomains: []string{"creativeWriting", "marketing"},
		personality: map[string]float64{
			"empathy":     0.6,
			"formality":   0.4,
			"creativity":  0.9,
			"precision":   0.5,
			"helpfulness": 0.7,
		},
	},
}

// Agents builds count agents cycling through the presets.
func Agents(count int) []*models.Agent {
	now := time.Now().UTC()
	agents := make([]*models.Agent, 0, count)

	for i := 1; i <= count; i++ {
		preset := agentPresets[(i-1)%len(agentPresets)]
		domains := strings.Join(preset.knowledgeDomains, ", ")
		modelID := 1 + rand.IntN(4)

		agents = append(agents, &models.Agent{
			ID:   i,
			Name: preset.name,
			Description: fmt.Sprintf(
				"A %s designed for %s", strings.ToLower(preset.name), domains),
			Capabilities:     preset.capabilities,
			KnowledgeDomains: preset.knowledgeDomains,
			Personality:      preset.personality,
			ModelID:          &modelID,
			SystemPrompt: fmt.Sprintf(
				"You are a helpful %s. Assist the user with their tasks related to %s.",
				strings.ToLower(preset.name), domains),
			Status:    "active",
			CreatedAt: now.AddDate(0, 0, -(1 + rand.IntN(30))),
			UpdatedAt: now,
		})
	}

	return agents
}

type modelPreset struct {
	name          string
	provider      string
	modelID       string
	capabilities  []string
	contextWindow int
	maxTokens     int
	parameters    map[string]any
}

var modelPresets = []modelPreset{
	{
		name:          "GPT-3.5 Turbo",
		provider:      "openai",
		modelID:       "gpt-3.5-turbo",
		capabilities:  []string{"textCompletion", "chatCompletion"},
		contextWindow: 4000,
		maxTokens:     2000,
		parameters: map[string]any{
			"temperature":      0.7,
			"topP":             1.0,
			"frequencyPenalty": 0.0,
			"presencePenalty":  0.0,
		},
	},
	{
		name:          "GPT-4",
		provider:      "openai",
		modelID:       "gpt-4",
		capabilities:  []string{"textCompletion", "chatCompletion"},
		contextWindow: 8000,
		maxTokens:     4000,
		parameters: map[string]any{
			"temperature":      0.7,
			"topP":             1.0,
			"frequencyPenalty": 0.0,
			"presencePenalty":  0.0,
		},
	},
	{
		name:          "Claude 2",
		provider:      "anthropic",
		modelID:       "claude-2",
		capabilities:  []string{"textCompletion", "chatCompletion"},
		contextWindow: 100000,
		maxTokens:     8000,
		parameters: map[string]any{
			"temperature": 0.7,
			"topK":        40,
			"topP":        0.9,
		},
	},
	{
		name:          "Mistral 7B",
		provider:      "mistral",
		modelID:       "mistral-7b",
		capabilities:  []string{"textCompletion"},
		contextWindow: 8000,
		maxTokens:     4000,
		parameters: map[string]any{
			"temperature":       0.7,
			"topP":              0.9,
			"repetitionPenalty": 1.1,
		},
	},
}

// Models builds up to count LLM model definitions from the presets.
func Models(count int) []*models.Model {
	now := time.Now().UTC()

	if count > len(modelPresets) {
		count = len(modelPresets)
	}

	mdls := make([]*models.Model, 0, count)

	for i := 1; i <= count; i++ {
		preset := modelPresets[i-1]

		mdls = append(mdls, &models.Model{
			ID:            i,
			Name:          preset.name,
			Description:   fmt.Sprintf("A language model from %s", preset.provider),
			Provider:      preset.provider,
			ModelID:       preset.modelID,
			Version:       "1.0",
			Capabilities:  preset.capabilities,
			ContextWindow: preset.contextWindow,
			MaxTokens:     preset.maxTokens,
			APIEndpoint:   fmt.Sprintf("https://api.%s.com/v1/completions", preset.provider),
			Parameters:    preset.parameters,
			Status:        "active",
			CreatedAt:     now.AddDate(0, 0, -(1 + rand.IntN(30))),
			UpdatedAt:     now,
		})
	}

	return mdls
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
