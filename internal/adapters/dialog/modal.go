// Package dialog implements the blocking confirmation prompt the kiosk shell renders.
package dialog

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"frontdesk_kiosk/internal/domain"
)

type Prompt struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	OKLabel string `json:"okLabel"`
}

type pending struct {
	Prompt
	answer chan bool
}

// Modal allows one open prompt at a time.
type Modal struct {
	mu   sync.Mutex
	open *pending
}

func NewModal() *Modal { return &Modal{} }

// Confirm opens a prompt and blocks until Answer is called or ctx ends.
func (m *Modal) Confirm(ctx context.Context, title, body, okLabel string) (bool, error) {
	m.mu.Lock()
	if m.open != nil {
		m.mu.Unlock()
		return false, domain.ErrDialogBusy
	}
	p := &pending{
		Prompt: Prompt{ID: uuid.NewString(), Title: title, Body: body, OKLabel: okLabel},
		answer: make(chan bool, 1),
	}
	m.open = p
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		if m.open == p {
			m.open = nil
		}
		m.mu.Unlock()
	}()

	log.Debug().Str("dialog", p.ID).Str("title", title).Msg("dialog opened")
	select {
	case ok := <-p.answer:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Pending returns the open prompt, if any.
func (m *Modal) Pending() (Prompt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open == nil {
		return Prompt{}, false
	}
	return m.open.Prompt, true
}

// Answer resolves the open prompt.
func (m *Modal) Answer(ok bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open == nil {
		return domain.ErrNoDialog
	}
	m.open.answer <- ok
	m.open = nil
	return nil
}
