package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zhouzirui/dhamma-widget/internal/model/chat"
)

// Listener observes every appended message.
type Listener func(chat.Message)

// Service holds the append-only transcript of one widget session.
type Service struct {
	session chat.Session

	// notifyMu serializes append+notify so listeners observe append order.
	notifyMu sync.Mutex

	mu        sync.RWMutex
	messages  []chat.Message
	listeners []Listener
}

// NewService starts an empty transcript bound to a fresh session.
func NewService(backend string) *Service {
	return &Service{
		session: chat.Session{
			ID:        uuid.NewString(),
			Backend:   backend,
			CreatedAt: time.Now().UTC(),
		},
		messages: make([]chat.Message, 0, 16),
	}
}

// Session returns the session the transcript belongs to.
func (s *Service) Session() chat.Session {
	return s.session
}

// Subscribe registers fn to be called after each append. Listeners run while the
// transcript is locked for notification and must not call Append.
func (s *Service) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Append stamps the message with an ID and timestamp and adds it to the end of the transcript.
func (s *Service) Append(_ context.Context, message chat.Message) chat.Message {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	message.ID = uuid.NewString()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.messages = append(s.messages, message)
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(message)
	}
	return message
}

// LoadTranscript returns a copy of every message in append order.
func (s *Service) LoadTranscript(_ context.Context) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]chat.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// Len reports how many messages have been appended.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
