// Package notify keeps the operator's transient snackbar messages.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Message struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Snackbar holds each message for a fixed time-to-live.
type Snackbar struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	seq  uint64
	msgs []Message
}

func NewSnackbar(ttl time.Duration) *Snackbar {
	return &Snackbar{ttl: ttl, now: time.Now}
}

// WithClock replaces the time source (tests).
func (s *Snackbar) WithClock(now func() time.Time) *Snackbar {
	s.now = now
	return s
}

func (s *Snackbar) Notify(text string) {
	log.Info().Str("message", text).Msg("notify")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.msgs = append(s.prune(), Message{ID: s.seq, Text: text, ExpiresAt: s.now().Add(s.ttl)})
}

// Active returns the messages that have not expired, oldest first.
func (s *Snackbar) Active() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = s.prune()
	out := make([]Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}

func (s *Snackbar) prune() []Message {
	now := s.now()
	kept := s.msgs[:0]
	for _, m := range s.msgs {
		if now.Before(m.ExpiresAt) {
			kept = append(kept, m)
		}
	}
	return kept
}
