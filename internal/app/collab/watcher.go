package collab

import (
	"context"
	"errors"
	"sync"

	"github.com/afterhack/afterhack-api/internal/domain"
	"github.com/afterhack/afterhack-api/internal/observability"
)

// Watcher composes a live request feed with the pure hydrator: every
// snapshot the feed delivers triggers a hydration pass, and each completed
// pass is emitted on the returned channel. Passes may overlap; emissions
// arrive in completion order, so consumers keep the last snapshot they
// receive (hydration is read-only and idempotent, the race is benign).
type Watcher struct {
	feed     domain.RequestFeed
	hydrator *Hydrator
}

func NewWatcher(feed domain.RequestFeed, users domain.UserStore, projects domain.ProjectStore) *Watcher {
	return &Watcher{
		feed:     feed,
		hydrator: NewHydrator(users, projects),
	}
}

// Watch subscribes to the user's requests and streams hydrated snapshots
// until ctx is cancelled. The channel closes once the subscription ends and
// all in-flight passes have drained.
func (w *Watcher) Watch(ctx context.Context, userID domain.UserID, dir domain.RequestDirection) <-chan []*domain.HydratedRequest {
	out := make(chan []*domain.HydratedRequest, 1)

	go func() {
		var wg sync.WaitGroup

		err := w.feed.Subscribe(ctx, userID, dir, func(reqs []*domain.CollabRequest) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				hydrated := w.hydrator.Hydrate(ctx, reqs)
				select {
				case out <- hydrated:
				case <-ctx.Done():
				}
			}()
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			observability.LoggerFromContext(ctx).Error("request feed subscription ended",
				"user_id", userID, "direction", dir, "error", err)
		}

		wg.Wait()
		close(out)
	}()

	return out
}
