// Package memory provides an in-memory persistence backend. All entities
// live in process memory and are lost on restart, which is the intended
// behavior for a mock backend.
package memory

import (
	"context"

	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/persistence"
)

type Persistence struct {
	workflows *collection[*models.Workflow]
	agents    *collection[*models.Agent]
	models    *collection[*models.Model]
	templates *collection[*models.Template]
}

func NewPersistence() *Persistence {
	return &Persistence{
		workflows: newCollection(
			func(w *models.Workflow) int { return w.ID },
			func(w *models.Workflow, id int) { w.ID = id },
			persistence.ErrWorkflowNotFound,
		),
		agents: newCollection(
			func(a *models.Agent) int { return a.ID },
			func(a *models.Agent, id int) { a.ID = id },
			persistence.ErrAgentNotFound,
		),
		models: newCollection(
			func(m *models.Model) int { return m.ID },
			func(m *models.Model, id int) { m.ID = id },
			persistence.ErrModelNotFound,
		),
		templates: newCollection(
			func(t *models.Template) int { return t.ID },
			func(t *models.Template, id int) { t.ID = id },
			persistence.ErrTemplateNotFound,
		),
	}
}

func (p *Persistence) Workflows() persistence.Repository[*models.Workflow] {
	return p.workflows
}

func (p *Persistence) Agents() persistence.Repository[*models.Agent] {
	return p.agents
}

func (p *Persistence) Models() persistence.Repository[*models.Model] {
	return p.models
}

func (p *Persistence) Templates() persistence.Repository[*models.Template] {
	return p.templates
}

// Seed loads a batch of entities, keeping any IDs they already carry.
func (p *Persistence) Seed(
	workflows []*models.Workflow,
	agents []*models.Agent,
	mdls []*models.Model,
	templates []*models.Template,
) {
	p.workflows.seed(workflows)
	p.agents.seed(agents)
	p.models.seed(mdls)
	p.templates.seed(templates)
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	return nil
}
