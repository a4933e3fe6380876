package chat

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/afterhack/afterhack-api/internal/adapters/llm"
	"github.com/afterhack/afterhack-api/internal/domain"
	"github.com/afterhack/afterhack-api/internal/observability"
)

// DefaultWindow is how many trailing turns of a transcript are forwarded to
// the gateway per call.
const DefaultWindow = 10

const (
	rateLimitText    = "Too many requests. Please wait a moment."
	genericErrorText = "Sorry, I encountered an error. Please try again later."
)

// Session owns one widget conversation: an append-only transcript behind an
// injectable store, with a context-window policy applied on every send.
// A gateway failure is absorbed into the transcript as an assistant-style
// error turn instead of breaking the conversation thread.
type Session struct {
	id     string
	svc    *Service
	store  domain.TranscriptStore
	window int
	now    func() time.Time
}

func NewSession(id string, svc *Service, store domain.TranscriptStore) *Session {
	return &Session{
		id:     id,
		svc:    svc,
		store:  store,
		window: DefaultWindow,
		now:    time.Now,
	}
}

// History returns the stored transcript. A load failure yields an empty
// transcript; a corrupt or missing history starts the conversation fresh.
func (s *Session) History(ctx context.Context) []domain.ChatTurn {
	turns, err := s.store.LoadTranscript(ctx, s.id)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("transcript load failed",
			"session_id", s.id, "error", err)
		return nil
	}
	return turns
}

// Send appends the user turn, forwards the last window of the transcript to
// the assembler, appends the reply, and persists the whole transcript.
// The returned turn is the assistant's, which on failure carries the error
// text instead of a generated reply.
func (s *Session) Send(ctx context.Context, text string) (domain.ChatTurn, error) {
	turns := s.History(ctx)

	userTurn := domain.ChatTurn{Sender: domain.SenderUser, Text: text, Timestamp: s.now()}
	turns = append(turns, userTurn)

	reply, err := s.svc.Reply(ctx, lastN(turns, s.window))

	botTurn := domain.ChatTurn{Sender: SenderBot, Timestamp: s.now()}
	if err != nil {
		botTurn.Text = ErrorText(err)
	} else {
		botTurn.Text = reply
	}
	turns = append(turns, botTurn)

	if saveErr := s.store.SaveTranscript(ctx, s.id, turns); saveErr != nil {
		observability.LoggerFromContext(ctx).Error("transcript save failed",
			"session_id", s.id, "error", saveErr)
	}

	return botTurn, err
}

// ErrorText maps a gateway failure to the message shown inline in the
// conversation. Rate limiting gets its own wording; everything else is
// generalized, raw upstream bodies are never shown.
func ErrorText(err error) string {
	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) && upstream.StatusCode == http.StatusTooManyRequests {
		return rateLimitText
	}
	return genericErrorText
}

func lastN(turns []domain.ChatTurn, n int) []domain.ChatTurn {
	if n > 0 && len(turns) > n {
		return turns[len(turns)-n:]
	}
	return turns
}
