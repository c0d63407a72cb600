package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/persistence"
)

// ErrTemplateNotFound is returned when a template is not found.
var ErrTemplateNotFound = persistence.ErrTemplateNotFound

type Template struct {
	persistence persistence.Persistence
	workflows   *Workflow
	now         func() time.Time
}

// NewTemplate creates a new template service. Applying a template goes
// through the workflow service so created workflows get the usual defaults.
func NewTemplate(persistence persistence.Persistence, workflows *Workflow) *Template {
	return &Template{
		persistence: persistence,
		workflows:   workflows,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (t *Template) ListTemplates(ctx context.Context) ([]*models.Template, error) {
	return t.persistence.Templates().List(ctx)
}

func (t *Template) GetTemplate(ctx context.Context, id int) (*models.Template, error) {
	return t.persistence.Templates().GetByID(ctx, id)
}

func (t *Template) CreateTemplate(ctx context.Context, template *models.Template) (*models.Template, error) {
	if template.Name == "" {
		return nil, ErrTemplateNameRequired
	}

	if template.Nodes == nil {
		template.Nodes = []*models.WorkflowNode{}
	}

	if template.Connections == nil {
		template.Connections = []*models.Connection{}
	}

	if template.Version == "" {
		template.Version = "1.0"
	}

	now := t.now()
	template.CreatedAt = now
	template.UpdatedAt = now

	return t.persistence.Templates().Create(ctx, template)
}

// UpdateTemplate replaces a template's mutable fields, preserving the stored
// ID and creation timestamp.
func (t *Template) UpdateTemplate(ctx context.Context, id int, template *models.Template) (*models.Template, error) {
	existing, err := t.persistence.Templates().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	template.ID = existing.ID
	template.CreatedAt = existing.CreatedAt
	template.UpdatedAt = t.now()

	return t.persistence.Templates().Update(ctx, id, template)
}

func (t *Template) DeleteTemplate(ctx context.Context, id int) error {
	return t.persistence.Templates().Delete(ctx, id)
}

// ApplyRequest customizes the workflow created from a template.
type ApplyRequest struct {
	Name           string
	Description    string
	Customizations map[string]any
}

// ApplyTemplate creates a new draft workflow seeded from the template's
// nodes and connections.
func (t *Template) ApplyTemplate(ctx context.Context, id int, req ApplyRequest) (*models.Workflow, error) {
	template, err := t.persistence.Templates().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = "Workflow from " + template.Name
	}

	description := req.Description
	if description == "" {
		description = template.Description
	}

	templateID := template.ID
	workflow := &models.Workflow{
		Name:        name,
		Description: description,
		Nodes:       template.Nodes,
		Connections: template.Connections,
		Status:      models.WorkflowStatusDraft,
		Version:     "1.0",
		TemplateID:  &templateID,
	}

	if len(req.Customizations) > 0 {
		if err := overlay(workflow, req.Customizations); err != nil {
			return nil, fmt.Errorf("failed to apply customizations: %w", err)
		}
	}

	return t.workflows.CreateWorkflow(ctx, workflow)
}

// overlay merges the given fields onto the workflow through its JSON form.
func overlay(workflow *models.Workflow, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, workflow)
}
