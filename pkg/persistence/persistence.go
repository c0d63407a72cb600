// Package persistence provides the storage abstraction for the editor's
// entity collections: workflows, agents, models and templates.
package persistence

import (
	"context"

	"github.com/nodeloom/nodeloom/pkg/models"
)

// Repository is a keyed collection with numeric-ID allocation. All entity
// kinds share the same access shape.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id int, item T) (T, error)
	Delete(ctx context.Context, id int) error
}

type Persistence interface {
	Workflows() Repository[*models.Workflow]
	Agents() Repository[*models.Agent]
	Models() Repository[*models.Model]
	Templates() Repository[*models.Template]

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
