// Package redis provides a Redis-backed chat transcript store, for
// deployments where widget conversations should survive a process restart.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/afterhack/afterhack-api/internal/domain"
)

const defaultTTL = 7 * 24 * time.Hour

// TranscriptStore implements domain.TranscriptStore on Redis. Each session
// is one JSON blob under a prefixed key with a sliding TTL: an idle
// conversation eventually expires instead of accumulating forever.
type TranscriptStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewTranscriptStore connects to the given redis URL and verifies the
// connection before returning.
func NewTranscriptStore(ctx context.Context, redisURL string) (*TranscriptStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &TranscriptStore{
		client: client,
		prefix: "chat:",
		ttl:    defaultTTL,
	}, nil
}

func (s *TranscriptStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// LoadTranscript returns the stored turns, or an empty transcript when the
// session has none yet.
func (s *TranscriptStore) LoadTranscript(ctx context.Context, sessionID string) ([]domain.ChatTurn, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	var turns []domain.ChatTurn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return turns, nil
}

// SaveTranscript replaces the stored transcript and refreshes the TTL.
func (s *TranscriptStore) SaveTranscript(ctx context.Context, sessionID string, turns []domain.ChatTurn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *TranscriptStore) Close() error {
	return s.client.Close()
}
