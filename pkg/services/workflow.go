package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/persistence"
)

// ErrWorkflowNotFound is returned when a workflow is not found.
var ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

const exportFormatVersion = "1.0"

// exportSchema validates the envelope accepted by ImportWorkflow.
var exportSchema = map[string]any{
	"type":     "object",
	"required": []any{"workflow"},
	"properties": map[string]any{
		"formatVersion": map[string]any{"type": "string"},
		"exportedAt":    map[string]any{"type": "string"},
		"workflow": map[string]any{
			"type":     "object",
			"required": []any{"name"},
			"properties": map[string]any{
				"name":        map[string]any{"type": "string", "minLength": 1},
				"nodes":       map[string]any{"type": "array"},
				"connections": map[string]any{"type": "array"},
			},
		},
	},
}

type Workflow struct {
	persistence persistence.Persistence
	now         func() time.Time
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(persistence persistence.Persistence) *Workflow {
	return &Workflow{
		persistence: persistence,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// SearchRequest filters the workflow listing. Zero values match everything.
type SearchRequest struct {
	Query  string
	Status string
	Tags   []string
}

func (r SearchRequest) empty() bool {
	return r.Query == "" && r.Status == "" && len(r.Tags) == 0
}

// ListWorkflows retrieves workflows matching the search request.
func (w *Workflow) ListWorkflows(ctx context.Context, req SearchRequest) ([]*models.Workflow, error) {
	workflows, err := w.persistence.Workflows().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	if req.empty() {
		return workflows, nil
	}

	results := make([]*models.Workflow, 0, len(workflows))

	for _, workflow := range workflows {
		if w.matches(workflow, req) {
			results = append(results, workflow)
		}
	}

	return results, nil
}

func (w *Workflow) matches(workflow *models.Workflow, req SearchRequest) bool {
	if req.Query != "" {
		query := strings.ToLower(req.Query)
		if !strings.Contains(strings.ToLower(workflow.Name), query) &&
			!strings.Contains(strings.ToLower(workflow.Description), query) {
			return false
		}
	}

	if req.Status != "" && workflow.Status != req.Status {
		return false
	}

	if len(req.Tags) > 0 && !hasAnyTag(workflow, req.Tags) {
		return false
	}

	return true
}

func hasAnyTag(workflow *models.Workflow, tags []string) bool {
	raw, ok := workflow.Metadata["tags"]
	if !ok {
		return false
	}

	var workflowTags []string

	switch v := raw.(type) {
	case []string:
		workflowTags = v
	case []any:
		for _, tag := range v {
			if s, ok := tag.(string); ok {
				workflowTags = append(workflowTags, s)
			}
		}
	default:
		return false
	}

	for _, tag := range tags {
		if slices.Contains(workflowTags, tag) {
			return true
		}
	}

	return false
}

// GetWorkflow retrieves a single workflow by ID.
func (w *Workflow) GetWorkflow(ctx context.Context, id int) (*models.Workflow, error) {
	return w.persistence.Workflows().GetByID(ctx, id)
}

// CreateWorkflow validates and stores a new workflow, filling in the
// defaults the editor relies on.
func (w *Workflow) CreateWorkflow(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow.Name == "" {
		return nil, ErrWorkflowNameRequired
	}

	if workflow.Nodes == nil {
		workflow.Nodes = []*models.WorkflowNode{}
	}

	if workflow.Connections == nil {
		workflow.Connections = []*models.Connection{}
	}

	if workflow.Status == "" {
		workflow.Status = models.WorkflowStatusDraft
	}

	if workflow.Version == "" {
		workflow.Version = "1.0"
	}

	now := w.now()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	return w.persistence.Workflows().Create(ctx, workflow)
}

// UpdateWorkflow replaces a workflow's mutable fields. The stored ID and
// creation timestamp are preserved regardless of what the update carries.
func (w *Workflow) UpdateWorkflow(ctx context.Context, id int, workflow *models.Workflow) (*models.Workflow, error) {
	existing, err := w.persistence.Workflows().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	workflow.ID = existing.ID
	workflow.CreatedAt = existing.CreatedAt
	workflow.UpdatedAt = w.now()

	return w.persistence.Workflows().Update(ctx, id, workflow)
}

// DeleteWorkflow removes a workflow.
func (w *Workflow) DeleteWorkflow(ctx context.Context, id int) error {
	return w.persistence.Workflows().Delete(ctx, id)
}

// CloneWorkflow duplicates a workflow as a fresh draft named after the
// original.
func (w *Workflow) CloneWorkflow(ctx context.Context, id int) (*models.Workflow, error) {
	original, err := w.persistence.Workflows().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	clone := original.Clone()
	clone.ID = 0
	clone.Name = "Copy of " + original.Name
	clone.Status = models.WorkflowStatusDraft

	now := w.now()
	clone.CreatedAt = now
	clone.UpdatedAt = now

	return w.persistence.Workflows().Create(ctx, clone)
}

// ExportWorkflow wraps a workflow in the portable export envelope.
func (w *Workflow) ExportWorkflow(ctx context.Context, id int) (*models.WorkflowExport, error) {
	workflow, err := w.persistence.Workflows().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.WorkflowExport{
		FormatVersion: exportFormatVersion,
		ExportedAt:    w.now(),
		Workflow:      workflow,
	}, nil
}

// ImportWorkflow validates an export envelope and stores its workflow under
// a freshly assigned ID.
func (w *Workflow) ImportWorkflow(ctx context.Context, raw []byte) (*models.Workflow, error) {
	if err := w.validateExport(raw); err != nil {
		return nil, err
	}

	var export models.WorkflowExport
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}

	workflow := export.Workflow
	workflow.ID = 0

	now := w.now()
	if workflow.Metadata == nil {
		workflow.Metadata = map[string]any{}
	}

	workflow.Metadata["importedAt"] = now.Format(time.RFC3339)
	workflow.UpdatedAt = now

	return w.persistence.Workflows().Create(ctx, workflow)
}

func (w *Workflow) validateExport(raw []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(exportSchema)
	dataLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, resultError := range result.Errors() {
			details = append(details, resultError.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidExport, strings.Join(details, "; "))
	}

	return nil
}

// ExecutionStart describes a freshly started workflow run.
type ExecutionStart struct {
	ExecutionID string                  `json:"executionId"`
	WorkflowID  int                     `json:"workflowId"`
	Status      string                  `json:"status"`
	StartTime   time.Time               `json:"startTime"`
	Message     string                  `json:"message"`
	Nodes       map[string]*PendingNode `json:"nodes"`
	Inputs      map[string]any          `json:"inputs,omitempty"`
}

// PendingNode is a node's initial entry in an execution start response.
type PendingNode struct {
	NodeID string `json:"nodeId"`
	Status string `json:"status"`
}

// ExecuteWorkflow starts a simulated run of the workflow. The run is not
// registered anywhere; clients report node progress through the execution
// tracking endpoints, which create the execution record lazily.
func (w *Workflow) ExecuteWorkflow(ctx context.Context, id int, inputs map[string]any) (*ExecutionStart, error) {
	workflow, err := w.persistence.Workflows().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := w.now()
	executionID := fmt.Sprintf("exec-%d-%s", now.Unix(), uuid.New().String()[:8])

	nodes := make(map[string]*PendingNode, len(workflow.Nodes))
	for _, node := range workflow.Nodes {
		nodes[node.ID] = &PendingNode{NodeID: node.ID, Status: "pending"}
	}

	return &ExecutionStart{
		ExecutionID: executionID,
		WorkflowID:  workflow.ID,
		Status:      "running",
		StartTime:   now,
		Message:     "Workflow execution started",
		Nodes:       nodes,
		Inputs:      inputs,
	}, nil
}
