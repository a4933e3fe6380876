package chat

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afterhack/afterhack-api/internal/adapters/llm"
	"github.com/afterhack/afterhack-api/internal/domain"
)

func TestBuildConversationPrependsPersona(t *testing.T) {
	turns := []domain.ChatTurn{
		{Sender: "user", Text: "hi"},
		{Sender: "bot", Text: "hello!"},
		{Sender: "user", Text: "find me AI projects"},
	}

	msgs := BuildConversation(turns)

	require.Len(t, msgs, len(turns)+1)
	assert.Equal(t, domain.ChatRoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "AI Assistant for AfterHack")
	assert.Equal(t, domain.ChatRoleUser, msgs[1].Role)
	assert.Equal(t, domain.ChatRoleAssistant, msgs[2].Role)
	assert.Equal(t, domain.ChatRoleUser, msgs[3].Role)
	assert.Equal(t, "find me AI projects", msgs[3].Content)
}

func TestBuildConversationRoundTrip(t *testing.T) {
	turns := []domain.ChatTurn{{Sender: "user", Text: "hi"}}

	msgs := BuildConversation(turns)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.ChatRoleSystem, msgs[0].Role)
	assert.Equal(t, domain.ChatMessage{Role: domain.ChatRoleUser, Content: "hi"}, msgs[1])

	// Dropping the system message recovers the original shape.
	var back []domain.ChatTurn
	for _, m := range msgs[1:] {
		sender := SenderBot
		if m.Role == domain.ChatRoleUser {
			sender = domain.SenderUser
		}
		back = append(back, domain.ChatTurn{Sender: sender, Text: m.Content})
	}
	assert.Equal(t, turns, back)
}

func TestReplyForwardsFullHistory(t *testing.T) {
	mock := llm.NewMockClient("sure thing")
	svc := NewService(mock)

	turns := make([]domain.ChatTurn, 25)
	for i := range turns {
		turns[i] = domain.ChatTurn{Sender: "user", Text: fmt.Sprintf("msg %d", i)}
	}

	text, err := svc.Reply(context.Background(), turns)
	require.NoError(t, err)
	assert.Equal(t, "sure thing", text)

	// The assembler itself never truncates; windowing belongs to Session.
	assert.Len(t, mock.LastMessages(), 26)
}

type fakeTranscriptStore struct {
	turns map[string][]domain.ChatTurn
}

func newFakeTranscriptStore() *fakeTranscriptStore {
	return &fakeTranscriptStore{turns: make(map[string][]domain.ChatTurn)}
}

func (f *fakeTranscriptStore) LoadTranscript(_ context.Context, id string) ([]domain.ChatTurn, error) {
	return f.turns[id], nil
}

func (f *fakeTranscriptStore) SaveTranscript(_ context.Context, id string, turns []domain.ChatTurn) error {
	f.turns[id] = turns
	return nil
}

func TestSessionAppliesContextWindow(t *testing.T) {
	mock := llm.NewMockClient("ok")
	store := newFakeTranscriptStore()
	sess := NewSession("s1", NewService(mock), store)

	for i := 0; i < 15; i++ {
		_, err := sess.Send(context.Background(), fmt.Sprintf("turn %d", i))
		require.NoError(t, err)
	}

	// Last call: persona + the trailing 10 turns only.
	assert.Len(t, mock.LastMessages(), DefaultWindow+1)
	// Transcript keeps everything: 15 user turns + 15 bot turns.
	assert.Len(t, store.turns["s1"], 30)
}

func TestSessionAbsorbsGatewayFailureInline(t *testing.T) {
	mock := llm.NewMockClient("")
	mock.Err = &llm.UpstreamError{StatusCode: http.StatusTooManyRequests, Body: "slow down"}
	store := newFakeTranscriptStore()
	sess := NewSession("s1", NewService(mock), store)

	turn, err := sess.Send(context.Background(), "hello")
	require.Error(t, err)

	assert.Equal(t, SenderBot, turn.Sender)
	assert.Equal(t, "Too many requests. Please wait a moment.", turn.Text)
	// Both the user turn and the inline error are persisted.
	require.Len(t, store.turns["s1"], 2)
	assert.Equal(t, "hello", store.turns["s1"][0].Text)
}

func TestErrorTextGeneralizesNonRateLimitErrors(t *testing.T) {
	err := &llm.UpstreamError{StatusCode: http.StatusBadGateway, Body: "secret upstream detail"}
	text := ErrorText(err)
	assert.Equal(t, "Sorry, I encountered an error. Please try again later.", text)
	assert.NotContains(t, text, "secret")
}
