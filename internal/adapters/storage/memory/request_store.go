package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/afterhack/afterhack-api/internal/domain"
)

// RequestStore is an in-memory domain.RequestStore and domain.RequestFeed.
// Every mutation fans the full current result set out to matching
// subscribers, mimicking the hosted document store's live queries.
type RequestStore struct {
	mu       sync.Mutex
	requests map[domain.RequestID]*domain.CollabRequest
	subs     map[int]*subscriber
	nextSub  int
}

type subscriber struct {
	userID domain.UserID
	dir    domain.RequestDirection
	ch     chan []*domain.CollabRequest
}

func NewRequestStore() *RequestStore {
	return &RequestStore{
		requests: make(map[domain.RequestID]*domain.CollabRequest),
		subs:     make(map[int]*subscriber),
	}
}

func (s *RequestStore) CreateRequest(_ context.Context, r *domain.CollabRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *r
	s.requests[r.ID] = &cp
	s.notifyLocked()
	return nil
}

func (s *RequestStore) GetRequest(_ context.Context, id domain.RequestID) (*domain.CollabRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *RequestStore) UpdateRequestStatus(_ context.Context, id domain.RequestID, status domain.RequestStatus, updatedAt domain.Timestamp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = updatedAt
	s.notifyLocked()
	return nil
}

func (s *RequestStore) ListRequests(_ context.Context, userID domain.UserID, dir domain.RequestDirection) ([]*domain.CollabRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(userID, dir), nil
}

// Subscribe implements domain.RequestFeed. The callback fires with the
// current result set immediately and again after every matching change,
// until ctx is cancelled.
func (s *RequestStore) Subscribe(ctx context.Context, userID domain.UserID, dir domain.RequestDirection, fn func([]*domain.CollabRequest)) error {
	sub := &subscriber{
		userID: userID,
		dir:    dir,
		ch:     make(chan []*domain.CollabRequest, 1),
	}

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = sub
	sub.ch <- s.snapshotLocked(userID, dir)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap := <-sub.ch:
			fn(snap)
		}
	}
}

// notifyLocked replaces each subscriber's pending snapshot with the latest
// one; intermediate snapshots a slow consumer never saw are dropped.
func (s *RequestStore) notifyLocked() {
	for _, sub := range s.subs {
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- s.snapshotLocked(sub.userID, sub.dir)
	}
}

func (s *RequestStore) snapshotLocked(userID domain.UserID, dir domain.RequestDirection) []*domain.CollabRequest {
	out := []*domain.CollabRequest{}
	for _, r := range s.requests {
		match := r.FromUserID == userID
		if dir == domain.DirectionReceived {
			match = r.ToUserID == userID
		}
		if !match {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
