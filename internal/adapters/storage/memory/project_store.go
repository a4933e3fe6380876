package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/afterhack/afterhack-api/internal/domain"
)

// ProjectStore is an in-memory domain.ProjectStore for local dev and tests.
type ProjectStore struct {
	mu       sync.RWMutex
	projects map[domain.ProjectID]*domain.Project
}

func NewProjectStore() *ProjectStore {
	return &ProjectStore{projects: make(map[domain.ProjectID]*domain.Project)}
}

func (s *ProjectStore) CreateProject(_ context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

func (s *ProjectStore) GetProject(_ context.Context, id domain.ProjectID) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *ProjectStore) ListProjects(_ context.Context, f domain.ProjectFilter) ([]*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := f.Status
	if status == "" && f.OwnerID == "" {
		// Public listings only show published work; owners see everything.
		status = domain.ProjectPublished
	}

	var out []*domain.Project
	for _, p := range s.projects {
		if f.OwnerID != "" && p.OwnerID != f.OwnerID {
			continue
		}
		if f.Domain != "" && p.Domain != f.Domain {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ProjectStore) UpdateProject(_ context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}
