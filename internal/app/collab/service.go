package collab

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/afterhack/afterhack-api/internal/domain"
	"github.com/afterhack/afterhack-api/internal/observability"
)

var (
	// ErrTerminalStatus is returned when transitioning a request that has
	// already been accepted or rejected.
	ErrTerminalStatus = errors.New("request already resolved")

	// ErrInvalidStatus is returned for a transition target other than
	// accepted or rejected.
	ErrInvalidStatus = errors.New("invalid status transition")
)

// Service owns the collaboration request workflow: sending, resolving, and
// listing with hydration.
type Service struct {
	requests domain.RequestStore
	hydrator *Hydrator
	now      func() time.Time
	newID    func() string
}

func NewService(requests domain.RequestStore, users domain.UserStore, projects domain.ProjectStore) *Service {
	return &Service{
		requests: requests,
		hydrator: NewHydrator(users, projects),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

type SendInput struct {
	ToUserID  domain.UserID
	ProjectID domain.ProjectID
	Type      domain.RequestType
	Message   string
}

// Send creates a pending request from the given user. Requests start
// pending and are never deleted; the status transition is the only
// mutation.
func (s *Service) Send(ctx context.Context, from domain.UserID, in SendInput) (*domain.CollabRequest, error) {
	if from == "" {
		return nil, fmt.Errorf("sender is required")
	}
	switch in.Type {
	case domain.RequestIntro, domain.RequestPOC, domain.RequestHiring:
	default:
		return nil, fmt.Errorf("unknown request type %q", in.Type)
	}

	now := s.now()
	req := &domain.CollabRequest{
		ID:         domain.RequestID(s.newID()),
		FromUserID: from,
		ToUserID:   in.ToUserID,
		ProjectID:  in.ProjectID,
		Type:       in.Type,
		Status:     domain.StatusPending,
		Message:    in.Message,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.requests.CreateRequest(ctx, req); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to create request",
			"from_user_id", from, "error", err)
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info("request sent",
		"request_id", req.ID, "from_user_id", from, "type", req.Type)
	return req, nil
}

// Resolve moves a pending request to accepted or rejected. Both targets are
// terminal; resolving an already resolved request fails.
func (s *Service) Resolve(ctx context.Context, id domain.RequestID, status domain.RequestStatus) error {
	if status != domain.StatusAccepted && status != domain.StatusRejected {
		return ErrInvalidStatus
	}

	req, err := s.requests.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	if req.Status != domain.StatusPending {
		return ErrTerminalStatus
	}

	if err := s.requests.UpdateRequestStatus(ctx, id, status, s.now()); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to update request status",
			"request_id", id, "error", err)
		return err
	}

	observability.LoggerFromContext(ctx).Info("request resolved",
		"request_id", id, "status", status)
	return nil
}

// List returns the user's requests for one direction, hydrated.
func (s *Service) List(ctx context.Context, userID domain.UserID, dir domain.RequestDirection) ([]*domain.HydratedRequest, error) {
	reqs, err := s.requests.ListRequests(ctx, userID, dir)
	if err != nil {
		return nil, err
	}
	return s.hydrator.Hydrate(ctx, reqs), nil
}
