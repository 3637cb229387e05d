package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainproject "github.com/portfolio/projects-api/internal/domain/project"
	portgit "github.com/portfolio/projects-api/internal/port/git"
)

// ErrLookup marks failures talking to the repository host, as opposed to
// failures creating the project.
var ErrLookup = errors.New("repository lookup failed")

// ProjectCreator is the slice of the project service the importer needs.
type ProjectCreator interface {
	Create(ctx context.Context, in domainproject.Input) (domainproject.Project, error)
}

// Service builds projects from hosted repository metadata.
type Service struct {
	repos    portgit.RepoReader
	projects ProjectCreator
}

func NewService(repos portgit.RepoReader, projects ProjectCreator) *Service {
	return &Service{repos: repos, projects: projects}
}

// Import reads owner/name and creates a project from it. The payload goes
// through the same validation as a hand-written create.
func (s *Service) Import(ctx context.Context, owner, name string) (domainproject.Project, error) {
	owner, name = strings.TrimSpace(owner), strings.TrimSpace(name)
	if owner == "" || name == "" {
		return domainproject.Project{}, &domainproject.ValidationError{Field: "repository", Reason: "owner and repo are required"}
	}

	info, err := s.repos.Repository(ctx, owner, name)
	if err != nil {
		return domainproject.Project{}, fmt.Errorf("%w: %s/%s: %w", ErrLookup, owner, name, err)
	}

	return s.projects.Create(ctx, domainproject.Input{
		Title:        info.Name,
		Description:  strings.TrimSpace(info.Description),
		Technologies: info.Languages,
	})
}
