package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/afterhack/afterhack-api/internal/domain"
)

// Service reads and updates member profiles. Account creation and
// authentication live with the managed identity provider; this service only
// touches the profile documents.
type Service struct {
	store domain.UserStore
	now   func() time.Time
}

func NewService(store domain.UserStore) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}

// Update writes the profile document. The profile variant must match the
// role: a student record cannot carry founder fields and vice versa.
func (s *Service) Update(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		return fmt.Errorf("user id is required")
	}

	switch user.Profile.(type) {
	case nil:
	case domain.StudentProfile:
		if user.Role != domain.RoleStudent {
			return fmt.Errorf("student profile on %s account", user.Role)
		}
	case domain.FounderProfile:
		if user.Role != domain.RoleFounder {
			return fmt.Errorf("founder profile on %s account", user.Role)
		}
	}

	user.UpdatedAt = s.now()
	return s.store.UpdateUser(ctx, user)
}

// ListByRole returns all members with the given role, e.g. founders for a
// student browsing potential collaborators.
func (s *Service) ListByRole(ctx context.Context, role domain.UserRole) ([]*domain.User, error) {
	return s.store.ListUsersByRole(ctx, role)
}
