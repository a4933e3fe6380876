package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/afterhack/afterhack-api/internal/domain"
)

// Store implements the user, project and request ports on Firestore, plus
// the live request feed via query snapshots.
type Store struct {
	client *firestore.Client
}

func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) usersCol() *firestore.CollectionRef {
	return s.client.Collection("users")
}

func (s *Store) projectsCol() *firestore.CollectionRef {
	return s.client.Collection("projects")
}

func (s *Store) requestsCol() *firestore.CollectionRef {
	return s.client.Collection("requests")
}

func notFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// ─────────────────────────────────────────
// UserStore implementation
// ─────────────────────────────────────────

func (s *Store) GetUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	snap, err := s.usersCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetUser: %w", err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetUser decode: %w", err)
	}

	return doc.toDomain(id), nil
}

func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	doc := userDocFrom(user)

	_, err := s.usersCol().Doc(string(user.ID)).Set(ctx, doc, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore UpdateUser: %w", err)
	}
	return nil
}

func (s *Store) ListUsersByRole(ctx context.Context, role domain.UserRole) ([]*domain.User, error) {
	iter := s.usersCol().Where("role", "==", string(role)).Documents(ctx)
	defer iter.Stop()

	var out []*domain.User
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListUsersByRole: %w", err)
		}

		var doc userDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode userDoc: %w", err)
		}
		out = append(out, doc.toDomain(domain.UserID(snap.Ref.ID)))
	}
	return out, nil
}

// ─────────────────────────────────────────
// ProjectStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateProject(ctx context.Context, p *domain.Project) error {
	_, err := s.projectsCol().Doc(string(p.ID)).Create(ctx, projectDocFrom(p))
	if err != nil {
		return fmt.Errorf("firestore CreateProject: %w", err)
	}
	return nil
}

func (s *Store) GetProject(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	snap, err := s.projectsCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetProject: %w", err)
	}

	var doc projectDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetProject decode: %w", err)
	}
	return doc.toDomain(id), nil
}

func (s *Store) ListProjects(ctx context.Context, f domain.ProjectFilter) ([]*domain.Project, error) {
	q := s.projectsCol().Query

	if f.OwnerID != "" {
		q = q.Where("user_id", "==", string(f.OwnerID))
	}
	if f.Domain != "" {
		q = q.Where("domain", "==", f.Domain)
	}
	switch {
	case f.Status != "":
		q = q.Where("status", "==", string(f.Status))
	case f.OwnerID == "":
		// Public listings only show published work.
		q = q.Where("status", "==", string(domain.ProjectPublished))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	q = q.OrderBy("created_at", firestore.Desc).Limit(limit)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Project
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListProjects: %w", err)
		}

		var doc projectDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode projectDoc: %w", err)
		}
		out = append(out, doc.toDomain(domain.ProjectID(snap.Ref.ID)))
	}
	return out, nil
}

func (s *Store) UpdateProject(ctx context.Context, p *domain.Project) error {
	_, err := s.projectsCol().Doc(string(p.ID)).Set(ctx, projectDocFrom(p), firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore UpdateProject: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// RequestStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateRequest(ctx context.Context, r *domain.CollabRequest) error {
	_, err := s.requestsCol().Doc(string(r.ID)).Create(ctx, requestDocFrom(r))
	if err != nil {
		return fmt.Errorf("firestore CreateRequest: %w", err)
	}
	return nil
}

func (s *Store) GetRequest(ctx context.Context, id domain.RequestID) (*domain.CollabRequest, error) {
	snap, err := s.requestsCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetRequest: %w", err)
	}

	var doc requestDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetRequest decode: %w", err)
	}
	return doc.toDomain(id), nil
}

func (s *Store) UpdateRequestStatus(ctx context.Context, id domain.RequestID, st domain.RequestStatus, updatedAt domain.Timestamp) error {
	_, err := s.requestsCol().Doc(string(id)).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(st)},
		{Path: "updated_at", Value: updatedAt},
	})
	if err != nil {
		if notFound(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("firestore UpdateRequestStatus: %w", err)
	}
	return nil
}

func (s *Store) requestsQuery(userID domain.UserID, dir domain.RequestDirection) firestore.Query {
	field := "from_user_id"
	if dir == domain.DirectionReceived {
		field = "to_user_id"
	}
	return s.requestsCol().
		Where(field, "==", string(userID)).
		OrderBy("created_at", firestore.Desc)
}

func (s *Store) ListRequests(ctx context.Context, userID domain.UserID, dir domain.RequestDirection) ([]*domain.CollabRequest, error) {
	iter := s.requestsQuery(userID, dir).Documents(ctx)
	defer iter.Stop()

	var out []*domain.CollabRequest
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListRequests: %w", err)
		}

		var doc requestDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode requestDoc: %w", err)
		}
		out = append(out, doc.toDomain(domain.RequestID(snap.Ref.ID)))
	}
	return out, nil
}

// Subscribe implements domain.RequestFeed on Firestore query snapshots.
// The callback receives the full current result set on the initial snapshot
// and after every change, until ctx is cancelled.
func (s *Store) Subscribe(ctx context.Context, userID domain.UserID, dir domain.RequestDirection, fn func([]*domain.CollabRequest)) error {
	snaps := s.requestsQuery(userID, dir).Snapshots(ctx)
	defer snaps.Stop()

	for {
		snap, err := snaps.Next()
		if err != nil {
			if status.Code(err) == codes.Canceled {
				return context.Canceled
			}
			return fmt.Errorf("firestore request subscription: %w", err)
		}

		var reqs []*domain.CollabRequest
		docs := snap.Documents
		for {
			d, err := docs.Next()
			if err != nil {
				if err == iterator.Done {
					break
				}
				return fmt.Errorf("firestore request snapshot: %w", err)
			}

			var doc requestDoc
			if err := d.DataTo(&doc); err != nil {
				return fmt.Errorf("decode requestDoc: %w", err)
			}
			reqs = append(reqs, doc.toDomain(domain.RequestID(d.Ref.ID)))
		}

		fn(reqs)
	}
}
