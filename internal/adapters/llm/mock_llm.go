package llm

import (
	"context"
	"sync"

	"github.com/afterhack/afterhack-api/internal/domain"
)

// MockClient is a scripted completion client for dev and tests. It records
// every call so tests can assert call counts and outbound payloads.
type MockClient struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	calls   int
	lastMsg []domain.ChatMessage
}

func NewMockClient(reply string) *MockClient {
	return &MockClient{Reply: reply}
}

func (m *MockClient) Complete(ctx context.Context, messages []domain.ChatMessage, model string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.lastMsg = append([]domain.ChatMessage(nil), messages...)

	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// Calls reports how many times Complete was invoked.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastMessages returns a copy of the most recent outbound message list.
func (m *MockClient) LastMessages() []domain.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ChatMessage(nil), m.lastMsg...)
}
