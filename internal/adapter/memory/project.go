package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	domainproject "github.com/portfolio/projects-api/internal/domain/project"
	portproject "github.com/portfolio/projects-api/internal/port/project"
)

var _ portproject.Repository = (*ProjectRepository)(nil)

// ProjectRepository keeps projects in insertion order in process memory.
// It backs STORE_DRIVER=memory and the service round-trip tests.
type ProjectRepository struct {
	mu       sync.RWMutex
	projects []domainproject.Project
	now      func() time.Time
}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{now: time.Now}
}

func (r *ProjectRepository) List(_ context.Context, q domainproject.ListQuery) ([]domainproject.Project, int64, error) {
	r.mu.RLock()
	matched := make([]domainproject.Project, 0, len(r.projects))
	needle := strings.ToLower(q.Search)
	for _, p := range r.projects {
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		matched = append(matched, clone(p))
	}
	r.mu.RUnlock()

	if q.Sort != nil {
		less := lessFunc(q.Sort.Field)
		sort.SliceStable(matched, func(i, j int) bool {
			if q.Sort.Desc {
				return less(matched[j], matched[i])
			}
			return less(matched[i], matched[j])
		})
	}

	total := int64(len(matched))
	start := q.Skip()
	if start < 0 || start >= len(matched) {
		return []domainproject.Project{}, total, nil
	}
	end := len(matched)
	if q.Limit > 0 && q.Limit < end-start {
		end = start + q.Limit
	}
	return matched[start:end], total, nil
}

func (r *ProjectRepository) Create(_ context.Context, in domainproject.Input) (domainproject.Project, error) {
	now := r.now().UTC().Truncate(time.Millisecond)
	p := domainproject.Project{
		ID:           primitive.NewObjectID(),
		Title:        in.Title,
		Description:  in.Description,
		Technologies: append([]string(nil), in.Technologies...),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.mu.Lock()
	r.projects = append(r.projects, p)
	r.mu.Unlock()
	return clone(p), nil
}

func (r *ProjectRepository) Update(_ context.Context, id primitive.ObjectID, patch domainproject.Patch) (domainproject.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domainproject.Project{}, domainproject.ErrNotFound
	}
	updated := patch.Apply(r.projects[i])
	updated.UpdatedAt = r.now().UTC().Truncate(time.Millisecond)
	r.projects[i] = updated
	return clone(updated), nil
}

func (r *ProjectRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return domainproject.ErrNotFound
	}
	r.projects = append(r.projects[:i], r.projects[i+1:]...)
	return nil
}

func (r *ProjectRepository) Ping(context.Context) error { return nil }

// indexOf must be called with r.mu held.
func (r *ProjectRepository) indexOf(id primitive.ObjectID) int {
	for i, p := range r.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func clone(p domainproject.Project) domainproject.Project {
	p.Technologies = append([]string(nil), p.Technologies...)
	return p
}

func lessFunc(f domainproject.SortField) func(a, b domainproject.Project) bool {
	switch f {
	case domainproject.SortTitle:
		return func(a, b domainproject.Project) bool { return a.Title < b.Title }
	case domainproject.SortDescription:
		return func(a, b domainproject.Project) bool { return a.Description < b.Description }
	case domainproject.SortTechnologies:
		return func(a, b domainproject.Project) bool {
			return strings.Join(a.Technologies, "\x00") < strings.Join(b.Technologies, "\x00")
		}
	case domainproject.SortCreatedAt:
		return func(a, b domainproject.Project) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case domainproject.SortUpdatedAt:
		return func(a, b domainproject.Project) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	default:
		return func(a, b domainproject.Project) bool { return a.ID.Hex() < b.ID.Hex() }
	}
}
