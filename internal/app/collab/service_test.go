package collab

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afterhack/afterhack-api/internal/adapters/storage/memory"
	"github.com/afterhack/afterhack-api/internal/domain"
)

func newTestService() (*Service, *memory.RequestStore) {
	requests := memory.NewRequestStore()
	return NewService(requests, memory.NewUserStore(), memory.NewProjectStore()), requests
}

func TestSendCreatesPendingRequest(t *testing.T) {
	svc, _ := newTestService()

	req, err := svc.Send(context.Background(), "founder-1", SendInput{
		ToUserID:  "student-1",
		ProjectID: "proj-1",
		Type:      domain.RequestIntro,
		Message:   "Would love an intro",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, domain.StatusPending, req.Status)
	assert.Equal(t, req.CreatedAt, req.UpdatedAt)
}

func TestSendRejectsUnknownType(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Send(context.Background(), "founder-1", SendInput{Type: "acquihire"})
	assert.Error(t, err)
}

func TestResolveTransitions(t *testing.T) {
	svc, _ := newTestService()

	req, err := svc.Send(context.Background(), "founder-1", SendInput{
		ToUserID: "student-1",
		Type:     domain.RequestHiring,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Resolve(context.Background(), req.ID, domain.StatusAccepted))

	// Accepted is terminal: no further transitions, not even to rejected.
	err = svc.Resolve(context.Background(), req.ID, domain.StatusRejected)
	assert.ErrorIs(t, err, ErrTerminalStatus)
}

func TestResolveRejectsInvalidTarget(t *testing.T) {
	svc, _ := newTestService()

	req, err := svc.Send(context.Background(), "founder-1", SendInput{
		ToUserID: "student-1",
		Type:     domain.RequestPOC,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Resolve(context.Background(), req.ID, domain.StatusPending), ErrInvalidStatus)
	assert.ErrorIs(t, svc.Resolve(context.Background(), req.ID, "withdrawn"), ErrInvalidStatus)
}

func TestResolveUnknownRequest(t *testing.T) {
	svc, _ := newTestService()
	err := svc.Resolve(context.Background(), "missing", domain.StatusAccepted)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListReturnsHydratedDirectionally(t *testing.T) {
	requests := memory.NewRequestStore()
	users := memory.NewUserStore()
	projects := memory.NewProjectStore()
	svc := NewService(requests, users, projects)

	ctx := context.Background()
	require.NoError(t, users.UpdateUser(ctx, &domain.User{ID: "founder-1", DisplayName: "Ada", Role: domain.RoleFounder}))

	req, err := svc.Send(ctx, "founder-1", SendInput{ToUserID: "student-1", Type: domain.RequestIntro})
	require.NoError(t, err)

	sent, err := svc.List(ctx, "founder-1", domain.DirectionSent)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, req.ID, sent[0].ID)
	require.NotNil(t, sent[0].FromUserDetails)
	assert.Equal(t, "Ada", sent[0].FromUserDetails.DisplayName)
	assert.Nil(t, sent[0].ToUserDetails, "recipient profile was never created")

	received, err := svc.List(ctx, "student-1", domain.DirectionReceived)
	require.NoError(t, err)
	require.Len(t, received, 1)

	none, err := svc.List(ctx, "student-1", domain.DirectionSent)
	require.NoError(t, err)
	assert.Empty(t, none)
}
