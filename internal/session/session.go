// Package session holds in-memory conversation history.
//
// History lives for the lifetime of the process only. There is no
// persistence layer: restarting the assistant starts a fresh conversation,
// which is the expected behavior for a voice session.
package session

import (
	"strings"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/uuid"
)

// DefaultLimit is the message cap applied when a Session is created with a
// non-positive limit.
const DefaultLimit = 50

// Session is one conversation's bounded message history. Safe for
// concurrent use.
//
// The zero value is not useful; create instances with New.
type Session struct {
	id    uuid.UUID
	limit int

	mu       sync.RWMutex
	messages []*ai.Message
}

// New creates a session capped at limit messages. Older messages are
// discarded in pairs once the cap is exceeded so the tail always starts at
// a user turn.
func New(limit int) *Session {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Session{
		id:    uuid.New(),
		limit: limit,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Add appends one user/assistant exchange, trimming the oldest exchanges
// when the history exceeds the session limit.
func (s *Session) Add(userInput, assistantResponse string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages,
		ai.NewUserMessage(ai.NewTextPart(userInput)),
		ai.NewModelMessage(ai.NewTextPart(assistantResponse)),
	)
	for len(s.messages) > s.limit {
		s.messages = s.messages[2:]
	}
}

// Messages returns a copy of the history for thread-safe access.
func (s *Session) Messages() []*ai.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*ai.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Count returns the number of stored messages.
func (s *Session) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Clear discards all history.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Transcript renders the history as "role: text" lines for inclusion in
// system instructions. Non-text parts are skipped.
func (s *Session) Transcript() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]string, 0, len(s.messages))
	for _, msg := range s.messages {
		var b strings.Builder
		for _, part := range msg.Content {
			if part.IsText() {
				b.WriteString(part.Text)
			}
		}
		text := strings.TrimSpace(b.String())
		if text == "" {
			continue
		}
		role := "user"
		if msg.Role == ai.RoleModel {
			role = "assistant"
		}
		lines = append(lines, role+": "+text)
	}
	return lines
}
