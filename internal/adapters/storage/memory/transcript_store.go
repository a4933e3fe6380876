package memory

import (
	"context"
	"sync"

	"github.com/afterhack/afterhack-api/internal/domain"
)

// TranscriptStore keeps chat transcripts in memory. Transcripts vanish on
// restart; deployments that want them to survive use the redis adapter.
type TranscriptStore struct {
	mu    sync.RWMutex
	turns map[string][]domain.ChatTurn
}

func NewTranscriptStore() *TranscriptStore {
	return &TranscriptStore{turns: make(map[string][]domain.ChatTurn)}
}

func (s *TranscriptStore) LoadTranscript(_ context.Context, sessionID string) ([]domain.ChatTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ChatTurn(nil), s.turns[sessionID]...), nil
}

func (s *TranscriptStore) SaveTranscript(_ context.Context, sessionID string, turns []domain.ChatTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[sessionID] = append([]domain.ChatTurn(nil), turns...)
	return nil
}
