package chat

import (
	"context"

	"github.com/afterhack/afterhack-api/internal/domain"
	"github.com/afterhack/afterhack-api/internal/observability"
)

// systemPersona is the fixed instruction prepended to every widget
// conversation before it reaches the completion gateway.
const systemPersona = `You are the AI Assistant for AfterHack.
Role: Help students with projects and founders/recruiters with discovery.
Tone: Friendly, professional, concise.
Context: Users can search projects via dashboard.`

// SenderBot tags assistant-side turns in a stored transcript.
const SenderBot = "bot"

// Service forwards a widget conversation to the completion gateway with the
// AfterHack persona prepended. No truncation happens here; trimming the
// history to a context window is the caller's job (see Session).
type Service struct {
	llm domain.CompletionClient
}

func NewService(llm domain.CompletionClient) *Service {
	return &Service{llm: llm}
}

// Reply sends the supplied turns, persona first, and returns the generated
// text. Gateway failures propagate as-is for the caller to map.
func (s *Service) Reply(ctx context.Context, turns []domain.ChatTurn) (string, error) {
	log := observability.LoggerFromContext(ctx).With("turns", len(turns))

	text, err := s.llm.Complete(ctx, BuildConversation(turns), "")
	if err != nil {
		log.Error("chat completion failed", "error", err)
		return "", err
	}

	log.Info("chat completion ok")
	return text, nil
}

// BuildConversation maps client turns onto the completion wire format:
// element 0 is always the system persona, senders other than "user" become
// the assistant role.
func BuildConversation(turns []domain.ChatTurn) []domain.ChatMessage {
	msgs := make([]domain.ChatMessage, 0, len(turns)+1)
	msgs = append(msgs, domain.ChatMessage{Role: domain.ChatRoleSystem, Content: systemPersona})

	for _, t := range turns {
		role := domain.ChatRoleAssistant
		if t.Sender == domain.SenderUser {
			role = domain.ChatRoleUser
		}
		msgs = append(msgs, domain.ChatMessage{Role: role, Content: t.Text})
	}

	return msgs
}
