package flow_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"frontdesk_kiosk/internal/app"
	"frontdesk_kiosk/internal/domain"
	"frontdesk_kiosk/internal/flow"
	"frontdesk_kiosk/internal/storage/memory"
)

const (
	janePayload = "@\n\x1e\rANSI 636014040002DL00410278ZC03190024\nDLDAQS1234567\nDCSSAMPLE\nDACJANE\n" +
		"DBB01011990\nDBC2\nDAG123 MAIN ST\nDAIMIAMI\nDAJFL\nDAK331010000\n"
	johnPayload = "@\n\x1e\rANSI 636014040002DL00410278ZC03190024\nDLDAQD7654321\nDCSDOE\nDACJOHN\n" +
		"DBB19800505\nDBC1\nDAG9 ELM RD\nDAIRENO\nDAJNV\nDAK89501\n"
)

// ---- fakes ----

type fakeScanner struct {
	mu         sync.Mutex
	starts     int
	stops      int
	running    bool
	publish    func(string)
	startErr   error
	torchErr   error
	decodeText string
	decodeErr  error
}

func (s *fakeScanner) Start(_ context.Context, publish func(string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startErr != nil {
		return s.startErr
	}
	s.starts++
	s.running = true
	s.publish = publish
	return nil
}

func (s *fakeScanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
	s.running = false
}

func (s *fakeScanner) ToggleTorch() error { return s.torchErr }

func (s *fakeScanner) DecodeImage(context.Context, []byte) (string, error) {
	return s.decodeText, s.decodeErr
}

func (s *fakeScanner) Status() domain.ScannerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := domain.ScannerStatus{Engine: "fake", Camera: "idle"}
	if s.running {
		st.Camera = "running"
	}
	return st
}

// emit delivers text through the callback of the last Start, like the polling loop would.
func (s *fakeScanner) emit(text string) {
	s.mu.Lock()
	p := s.publish
	s.mu.Unlock()
	p(text)
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *fakeNotifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *fakeNotifier) count(msg string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, m := range n.msgs {
		if m == msg {
			c++
		}
	}
	return c
}

func (n *fakeNotifier) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.msgs) == 0 {
		return ""
	}
	return n.msgs[len(n.msgs)-1]
}

type fakeConfirmer struct {
	answer bool
	during func() // runs while the prompt is open
	asked  []string
}

func (c *fakeConfirmer) Confirm(_ context.Context, title, body, okLabel string) (bool, error) {
	c.asked = append(c.asked, title+"|"+body+"|"+okLabel)
	if c.during != nil {
		c.during()
	}
	return c.answer, nil
}

// ---- rig ----

var start = time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC)

type rig struct {
	m       *flow.Machine
	clock   *flow.ManualClock
	scan    *fakeScanner
	notes   *fakeNotifier
	confirm *fakeConfirmer
	guests  *app.GuestService
	roll    float64
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		clock:   flow.NewManualClock(start),
		scan:    &fakeScanner{},
		notes:   &fakeNotifier{},
		confirm: &fakeConfirmer{answer: true},
		roll:    0.1,
	}
	r.guests = app.NewGuestService(memory.New(), nil, time.Minute)
	_, err := r.guests.Seed(context.Background())
	require.NoError(t, err)

	r.m = flow.New(flow.DefaultConfig(), flow.Deps{
		Guests:    r.guests,
		Scanner:   r.scan,
		Notifier:  r.notes,
		Confirmer: r.confirm,
		Clock:     r.clock,
		Rand:      func() float64 { return r.roll },
	})
	return r
}

func (r *rig) do(t *testing.T, actions ...flow.Action) {
	t.Helper()
	for _, a := range actions {
		require.NoError(t, r.m.Dispatch(context.Background(), a), "action %s on %s", a, r.m.Screen())
	}
}

func validForm() domain.GuestForm {
	return domain.GuestForm{
		FullName: "Ana Lima", StreetAddress: "1 Ocean Dr", City: "Miami", State: "FL",
		Zip: "33139", Gender: domain.GenderFemale, Age: "41", IDType: "DL", IDNumber: "L5550001",
	}
}

func cashStay() domain.StayForm {
	return domain.StayForm{
		CheckIn: "2025-06-01", CheckOut: "2025-06-04", Adults: "1", Children: "0",
		RoomID: "101", RatePlanID: "flex", DailyRate: "129", Deposit: "0", Discount: "10",
	}
}

// toBookingSummary walks a fresh session to the booking summary.
func (r *rig) toBookingSummary(t *testing.T) {
	t.Helper()
	r.do(t, flow.ActCheckIn)
	require.NoError(t, r.m.UpdateGuestForm(validForm()))
	r.do(t, flow.ActNext)
	require.NoError(t, r.m.UpdateStay(cashStay()))
	r.do(t, flow.ActNext)
	require.Equal(t, flow.ScreenBookingSummary, r.m.Screen())
}
