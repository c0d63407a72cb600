// Package registry maintains the catalog of node types the editor palette
// can place on the canvas.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/nodeloom/nodeloom/pkg/models"
)

type Registry struct {
	logger *slog.Logger
	types  map[string]*models.NodeType
	order  []string
}

// NewRegistry builds a registry preloaded with the built-in node types.
func NewRegistry(logger *slog.Logger) *Registry {
	r := &Registry{
		logger: logger,
		types:  make(map[string]*models.NodeType),
	}

	for _, nodeType := range builtinNodeTypes() {
		r.Register(nodeType)
	}

	return r
}

// Register adds or replaces a node type. Registration order is preserved
// for listing.
func (r *Registry) Register(nodeType *models.NodeType) {
	if _, exists := r.types[nodeType.Type]; !exists {
		r.order = append(r.order, nodeType.Type)
	}

	r.types[nodeType.Type] = nodeType
	r.logger.Debug("registered node type", "type", nodeType.Type)
}

func (r *Registry) Get(typeName string) (*models.NodeType, error) {
	nodeType, ok := r.types[typeName]
	if !ok {
		return nil, fmt.Errorf("node type '%s' not registered", typeName)
	}

	return nodeType, nil
}

// List returns all node types in registration order.
func (r *Registry) List() []*models.NodeType {
	list := make([]*models.NodeType, 0, len(r.order))
	for _, typeName := range r.order {
		list = append(list, r.types[typeName])
	}

	return list
}

func builtinNodeTypes() []*models.NodeType {
	return []*models.NodeType{
		{
			Type:        "agent",
			Label:       "Agent",
			Icon:        "robot",
			Color:       "#4F46E5",
			Description: "Autonomous agent that can perform tasks",
			Inputs:      []string{"input"},
			Outputs:     []string{"output"},
		},
		{
			Type:        "llm",
			Label:       "LLM",
			Icon:        "cpu",
			Color:       "#0EA5E9",
			Description: "Large Language Model processor",
			Inputs:      []string{"prompt"},
			Outputs:     []string{"completion"},
		},
		{
			Type:        "dataSource",
			Label:       "Data Source",
			Icon:        "database",
			Color:       "#10B981",
			Description: "External data source connector",
			Inputs:      []string{},
			Outputs:     []string{"data"},
		},
		{
			Type:        "transform",
			Label:       "Transform",
			Icon:        "filter",
			Color:       "#F59E0B",
			Description: "Data transformation processor",
			Inputs:      []string{"input"},
			Outputs:     []string{"output"},
		},
		{
			Type:        "manualStep",
			Label:       "Manual Step",
			Icon:        "user",
			Color:       "#EC4899",
			Description: "Human-in-the-loop approval step",
			Inputs:      []string{"input"},
			Outputs:     []string{"output"},
		},
		{
			Type:        "fileUpload",
			Label:       "File Upload",
			Icon:        "file-upload",
			Color:       "#8B5CF6",
			Description: "File upload and processing",
			Inputs:      []string{},
			Outputs:     []string{"files"},
		},
	}
}
