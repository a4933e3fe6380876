package memory

import (
	"context"
	"sync"

	"github.com/afterhack/afterhack-api/internal/domain"
)

// UserStore is an in-memory domain.UserStore for local dev and tests.
type UserStore struct {
	mu    sync.RWMutex
	users map[domain.UserID]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[domain.UserID]*domain.User)}
}

func (s *UserStore) GetUser(_ context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// UpdateUser upserts; the managed auth provider owns account creation, so
// the first profile write is what creates the document here too.
func (s *UserStore) UpdateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *UserStore) ListUsersByRole(_ context.Context, role domain.UserRole) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.User
	for _, u := range s.users {
		if u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}
