package project

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/portfolio/projects-api/internal/domain/event"
	domainproject "github.com/portfolio/projects-api/internal/domain/project"
	porteventbus "github.com/portfolio/projects-api/internal/port/eventbus"
	portmedia "github.com/portfolio/projects-api/internal/port/media"
	portproject "github.com/portfolio/projects-api/internal/port/project"
)

type Service struct {
	repo        portproject.Repository
	media       portmedia.Store
	bus         porteventbus.Publisher
	log         *zap.Logger
	mediaFolder string
}

func NewService(
	repo portproject.Repository,
	media portmedia.Store,
	bus porteventbus.Publisher,
	log *zap.Logger,
	mediaFolder string,
) *Service {
	return &Service{
		repo:        repo,
		media:       media,
		bus:         bus,
		log:         log,
		mediaFolder: mediaFolder,
	}
}

func (s *Service) List(ctx context.Context, q domainproject.ListQuery) (domainproject.Page, error) {
	projects, total, err := s.repo.List(ctx, q)
	if err != nil {
		return domainproject.Page{}, fmt.Errorf("list projects: %w", err)
	}
	if projects == nil {
		projects = []domainproject.Project{}
	}
	return domainproject.Page{
		Total:    total,
		Page:     q.Page,
		Limit:    q.Limit,
		Projects: projects,
	}, nil
}

// Create validates in and persists it. A *domainproject.ValidationError is
// returned as-is so callers can report the violated rule.
func (s *Service) Create(ctx context.Context, in domainproject.Input) (domainproject.Project, error) {
	if err := domainproject.Validate(in); err != nil {
		return domainproject.Project{}, err
	}

	created, err := s.repo.Create(ctx, in)
	if err != nil {
		return domainproject.Project{}, fmt.Errorf("create project: %w", err)
	}

	s.log.Info("project created", zap.String("project_id", created.ID.Hex()))
	s.publish(ctx, event.TypeProjectCreated, created.ID.Hex())
	return created, nil
}

func (s *Service) Update(ctx context.Context, rawID string, patch domainproject.Patch) (domainproject.Project, error) {
	id, err := domainproject.ParseID(rawID)
	if err != nil {
		return domainproject.Project{}, err
	}
	if err := domainproject.ValidatePatch(patch); err != nil {
		return domainproject.Project{}, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domainproject.Project{}, fmt.Errorf("update project %s: %w", rawID, err)
	}

	s.publish(ctx, event.TypeProjectUpdated, updated.ID.Hex())
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := domainproject.ParseID(rawID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project %s: %w", rawID, err)
	}

	s.log.Info("project deleted", zap.String("project_id", rawID))
	s.publish(ctx, event.TypeProjectDeleted, id.Hex())
	return nil
}

// Ping reports whether the record store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// publish is best-effort: a lost notification never fails the write.
func (s *Service) publish(ctx context.Context, t event.Type, id string) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event.New(t, id)); err != nil {
		s.log.Warn("publish project event", zap.String("type", string(t)), zap.String("project_id", id), zap.Error(err))
	}
}
