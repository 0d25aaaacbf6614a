// Package flow drives the kiosk's check-in wizard: one active screen, operator
// actions, and the asynchronous scan and payment events that move between screens.
package flow

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"frontdesk_kiosk/internal/adapters/observability"
	"frontdesk_kiosk/internal/app"
	"frontdesk_kiosk/internal/domain"
)

// GuestDirectory classifies and registers guests.
type GuestDirectory interface {
	Lookup(ctx context.Context, idType, idNumber string) (domain.LookupResult, error)
	Register(ctx context.Context, form domain.GuestForm, today time.Time) (domain.GuestProfile, error)
}

// Scanner acquires barcode text from a camera or a still image.
type Scanner interface {
	// Start opens the camera and polls it; publish receives every decoded text.
	Start(ctx context.Context, publish func(text string)) error
	// Stop cancels polling and releases the camera. It does not wait for the loop.
	Stop()
	ToggleTorch() error
	DecodeImage(ctx context.Context, data []byte) (string, error)
	Status() domain.ScannerStatus
}

type Config struct {
	ProcessingDelay time.Duration
	SuccessRate     float64
	DedupWindow     time.Duration
	CheckCapacity   bool
}

func DefaultConfig() Config {
	return Config{
		ProcessingDelay: 1800 * time.Millisecond,
		SuccessRate:     0.75,
		DedupWindow:     1500 * time.Millisecond,
	}
}

type Deps struct {
	Guests    GuestDirectory
	Scanner   Scanner
	Notifier  domain.Notifier
	Confirmer domain.Confirmer
	Clock     Clock          // optional, wall clock
	Rand      func() float64 // optional, math/rand
	Booking   app.BookingCalculator
}

type handler func(ctx context.Context) error

// Machine serializes every event behind one mutex. Each navigation bumps
// token; scan and timer callbacks carry the token they were created under.
type Machine struct {
	mu sync.Mutex

	cfg       Config
	guests    GuestDirectory
	scanner   Scanner
	notifier  domain.Notifier
	confirmer domain.Confirmer
	clock     Clock
	rnd       func() float64
	validate  *app.Validator
	booking   app.BookingCalculator

	screen   Screen
	token    uint64
	session  Session
	dedup    deduper
	pending  Timer
	handlers map[Screen]map[Action]handler
}

func New(cfg Config, d Deps) *Machine {
	if d.Clock == nil {
		d.Clock = realClock{}
	}
	if d.Rand == nil {
		d.Rand = rand.Float64
	}
	v := app.NewValidator()
	v.CheckCapacity = cfg.CheckCapacity

	m := &Machine{
		cfg:       cfg,
		guests:    d.Guests,
		scanner:   d.Scanner,
		notifier:  d.Notifier,
		confirmer: d.Confirmer,
		clock:     d.Clock,
		rnd:       d.Rand,
		validate:  v,
		booking:   d.Booking,
		screen:    ScreenDashboard,
		dedup:     deduper{window: cfg.DedupWindow},
	}
	m.session = newSession(m.clock.Now())
	m.handlers = m.screenHandlers()
	return m
}

// Dispatch applies an operator action to the active screen.
func (m *Machine) Dispatch(ctx context.Context, a Action) error {
	if a == ActDiscard {
		return m.discard(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.handlers[m.screen][a]
	if !ok {
		return fmt.Errorf("%w: %s on %s", domain.ErrActionNotAllowed, a, m.screen)
	}
	return h(ctx)
}

// Allows reports whether a is accepted on the active screen.
func (m *Machine) Allows(a Action) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allows(a)
}

func (m *Machine) allows(a Action) bool {
	if a == ActDiscard {
		return discardable[m.screen]
	}
	_, ok := m.handlers[m.screen][a]
	return ok
}

func (m *Machine) Screen() Screen {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.screen
}

// Token is the current navigation token.
func (m *Machine) Token() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// discard asks for confirmation without holding the lock, then resets unless
// the flow moved on while the dialog was open.
func (m *Machine) discard(ctx context.Context) error {
	m.mu.Lock()
	if !discardable[m.screen] {
		s := m.screen
		m.mu.Unlock()
		return fmt.Errorf("%w: %s on %s", domain.ErrActionNotAllowed, ActDiscard, s)
	}
	tok := m.token
	m.mu.Unlock()

	ok, err := m.confirmer.Confirm(ctx, discardTitle, discardBody, discardOK)
	if err != nil {
		return fmt.Errorf("discard confirmation: %w", err)
	}
	if !ok {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token != tok {
		return domain.ErrStale
	}
	log.Info().Str("session", m.session.ID).Msg("check-in discarded")
	m.resetSession()
	m.goTo(ScreenDashboard)
	return nil
}

// goTo leaves the active screen, releasing what it holds, and enters next.
func (m *Machine) goTo(next Screen) {
	prev := m.screen
	switch prev {
	case ScreenScanner:
		if next != ScreenScanner {
			m.scanner.Stop()
		}
	case ScreenProcessing:
		if m.pending != nil {
			m.pending.Stop()
			m.pending = nil
		}
	}
	m.screen = next
	m.token++

	observability.ObserveTransition(string(prev), string(next))
	log.Debug().Str("from", string(prev)).Str("to", string(next)).Uint64("token", m.token).Msg("screen")
}

func (m *Machine) resetSession() {
	m.session = newSession(m.clock.Now())
}

func (m *Machine) notify(msg string) {
	if m.notifier != nil {
		m.notifier.Notify(msg)
	}
}

// validationFields extracts field messages; ok is false for other errors.
func validationFields(err error) (map[string]string, bool) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}

func (m *Machine) allowedActions() []Action {
	out := make([]Action, 0, len(m.handlers[m.screen])+1)
	for a := range m.handlers[m.screen] {
		out = append(out, a)
	}
	if discardable[m.screen] {
		out = append(out, ActDiscard)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
