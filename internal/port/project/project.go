package project

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	domainproject "github.com/portfolio/projects-api/internal/domain/project"
)

// Repository manages project persistence.
// service/project depends on this interface, not on a concrete storage.
// Update and Delete return domainproject.ErrNotFound for unknown ids.
type Repository interface {
	List(ctx context.Context, q domainproject.ListQuery) ([]domainproject.Project, int64, error)
	Create(ctx context.Context, in domainproject.Input) (domainproject.Project, error)
	Update(ctx context.Context, id primitive.ObjectID, patch domainproject.Patch) (domainproject.Project, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Ping(ctx context.Context) error
}
