// Package chat keeps the transcript of the question-answering surface.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/unibot/cli/internal/api"
	"github.com/unibot/cli/internal/apperr"
	"github.com/unibot/cli/internal/notify"
)

// FallbackText is appended as the bot's reply whenever a question could not
// be answered because of a transport or server failure.
const FallbackText = "Failed to get a response. Is the server running?"

// Sender identifies who authored a message.
type Sender int

const (
	User Sender = iota
	Bot
)

func (s Sender) String() string {
	if s == Bot {
		return "bot"
	}
	return "user"
}

// Message is one transcript line. Sequence numbers start at 1 and increase
// strictly in append order.
type Message struct {
	Sender   Sender
	Text     string
	Sequence int
	// Fallback marks a bot message produced because the request failed.
	Fallback bool
	SentAt   time.Time
}

// Asker sends a question to the answering endpoint.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
	Probe(ctx context.Context) error
}

// Session is the chat transcript plus the ask cycle. The transcript is
// append-only for the lifetime of the session.
type Session struct {
	asker  Asker
	logger *zap.Logger
	hub    notify.Hub
	now    func() time.Time

	mu          sync.Mutex
	messages    []Message
	input       string
	pending     bool
	unreachable bool
}

// NewSession builds an empty session.
func NewSession(asker Asker, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		asker:  asker,
		logger: logger.Named("chat"),
		now:    time.Now,
	}
}

// Subscribe registers fn to run after every transcript or status change.
func (s *Session) Subscribe(fn func()) func() {
	return s.hub.Subscribe(fn)
}

// SetInput replaces the pending-input buffer.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
}

// Input returns the pending-input buffer.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Submit sends the pending-input buffer.
func (s *Session) Submit(ctx context.Context) error {
	return s.Send(ctx, s.Input())
}

// Send asks text. Whitespace-only text is ignored. The user's message is
// appended and published before the request goes out; the bot's answer, or
// FallbackText on any failure, is appended once the request settles. Request
// failures are logged, never returned. The only error is a busy error when
// an earlier question is still waiting for its answer; in that case nothing
// is appended and the input buffer is kept.
func (s *Session) Send(ctx context.Context, text string) error {
	question := strings.TrimSpace(text)
	if question == "" {
		return nil
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return apperr.Busy("send")
	}
	s.pending = true
	s.appendLocked(User, question, false)
	s.input = ""
	s.mu.Unlock()
	s.hub.Publish()

	answer, err := s.asker.Ask(ctx, question)

	s.mu.Lock()
	s.pending = false
	if err != nil {
		s.logger.Error("ask failed", zap.String("question", question), zap.Error(err))
		s.appendLocked(Bot, FallbackText, true)
	} else {
		s.unreachable = false
		s.appendLocked(Bot, answer, false)
	}
	s.mu.Unlock()
	s.hub.Publish()
	return nil
}

func (s *Session) appendLocked(sender Sender, text string, fallback bool) {
	s.messages = append(s.messages, Message{
		Sender:   sender,
		Text:     text,
		Sequence: len(s.messages) + 1,
		Fallback: fallback,
		SentAt:   s.now(),
	})
}

// Probe checks that the answering endpoint is reachable. Only a transport
// failure counts: any HTTP answer, even a non-2xx one, proves the server is
// up. A failure is only logged and remembered as a warning flag.
func (s *Session) Probe(ctx context.Context) bool {
	err := s.asker.Probe(ctx)
	down := api.IsTransport(err)
	s.mu.Lock()
	s.unreachable = down
	s.mu.Unlock()
	switch {
	case down:
		s.logger.Warn("could not connect to backend", zap.Error(err))
	case err != nil:
		s.logger.Debug("backend answered connectivity check with an error", zap.Error(err))
	}
	s.hub.Publish()
	return !down
}

// Transcript returns a copy of all messages in order.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Pending reports whether a question is waiting for its answer.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Unreachable reports whether the last Probe hit a transport failure.
func (s *Session) Unreachable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unreachable
}
