package collab

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/afterhack/afterhack-api/internal/domain"
	"github.com/afterhack/afterhack-api/internal/observability"
)

// Hydrator resolves the foreign references of a request batch for display:
// scatter one lookup per distinct user and project ID, gather into maps,
// join back onto each request. Misses and individual lookup failures leave
// the detail nil; they never drop a request or fail the batch.
type Hydrator struct {
	users    domain.UserStore
	projects domain.ProjectStore
}

func NewHydrator(users domain.UserStore, projects domain.ProjectStore) *Hydrator {
	return &Hydrator{users: users, projects: projects}
}

// Hydrate returns one HydratedRequest per input request, same order, same
// length. All lookups for a pass run concurrently; each distinct identifier
// is looked up exactly once no matter how many requests reference it.
func (h *Hydrator) Hydrate(ctx context.Context, reqs []*domain.CollabRequest) []*domain.HydratedRequest {
	userIDs := make(map[domain.UserID]struct{})
	projectIDs := make(map[domain.ProjectID]struct{})
	for _, r := range reqs {
		userIDs[r.FromUserID] = struct{}{}
		if r.ToUserID != "" {
			userIDs[r.ToUserID] = struct{}{}
		}
		if r.ProjectID != "" {
			projectIDs[r.ProjectID] = struct{}{}
		}
	}

	log := observability.LoggerFromContext(ctx)

	var mu sync.Mutex
	users := make(map[domain.UserID]*domain.User, len(userIDs))
	projects := make(map[domain.ProjectID]*domain.Project, len(projectIDs))

	g, gctx := errgroup.WithContext(ctx)

	for id := range userIDs {
		g.Go(func() error {
			u, err := h.users.GetUser(gctx, id)
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					log.Warn("user lookup failed during hydration", "user_id", id, "error", err)
				}
				return nil
			}
			mu.Lock()
			users[id] = u
			mu.Unlock()
			return nil
		})
	}

	for id := range projectIDs {
		g.Go(func() error {
			p, err := h.projects.GetProject(gctx, id)
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					log.Warn("project lookup failed during hydration", "project_id", id, "error", err)
				}
				return nil
			}
			mu.Lock()
			projects[id] = p
			mu.Unlock()
			return nil
		})
	}

	// Fan-in barrier: no partial results leave this function.
	_ = g.Wait()

	out := make([]*domain.HydratedRequest, 0, len(reqs))
	for _, r := range reqs {
		hr := &domain.HydratedRequest{
			CollabRequest:   *r,
			FromUserDetails: users[r.FromUserID],
		}
		if r.ToUserID != "" {
			hr.ToUserDetails = users[r.ToUserID]
		}
		if r.ProjectID != "" {
			hr.ProjectDetails = projects[r.ProjectID]
		}
		out = append(out, hr)
	}
	return out
}
