package flow

import (
	"fmt"
	"maps"

	"frontdesk_kiosk/internal/domain"
)

// View is a snapshot of the active screen and the session data it shows.
type View struct {
	SessionID  string                `json:"sessionId"`
	Screen     Screen                `json:"screen"`
	Token      uint64                `json:"token"`
	Actions    []Action              `json:"actions"`
	Form       domain.GuestForm      `json:"guestForm"`
	FormErrors map[string]string     `json:"guestFormErrors,omitempty"`
	Lookup     *domain.LookupResult  `json:"lookup,omitempty"`
	GuestID    string                `json:"guestId,omitempty"`
	Stay       domain.StayForm       `json:"stay"`
	StayErrors map[string]string     `json:"stayErrors,omitempty"`
	Rooms      []domain.Room         `json:"rooms,omitempty"`
	RatePlans  []domain.RatePlan     `json:"ratePlans,omitempty"`
	Booking    *BookingView          `json:"booking,omitempty"`
	Payment    domain.PaymentState   `json:"payment"`
	CardErrors map[string]string     `json:"cardErrors,omitempty"`
	Scanner    *domain.ScannerStatus `json:"scanner,omitempty"`
	Receipt    *Receipt              `json:"receipt,omitempty"`
}

type BookingView struct {
	BookingID string `json:"bookingId"`
	Room      string `json:"room"`
	CheckIn   string `json:"checkIn"`
	CheckOut  string `json:"checkOut"`
	Nights    int    `json:"nights"`
	Subtotal  string `json:"subtotal"`
	Total     string `json:"total"`
}

type Receipt struct {
	ShareText string `json:"shareText"`
}

func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session
	v := View{
		SessionID:  s.ID,
		Screen:     m.screen,
		Token:      m.token,
		Actions:    m.allowedActions(),
		Form:       s.Form,
		FormErrors: maps.Clone(s.FormErrors),
		GuestID:    s.GuestID,
		Stay:       s.Stay,
		StayErrors: maps.Clone(s.StayErrors),
		Payment:    s.Payment,
		CardErrors: maps.Clone(s.CardErrors),
	}

	switch m.screen {
	case ScreenScanner:
		st := m.scanner.Status()
		v.Scanner = &st
	case ScreenReturningGuest, ScreenNewGuest:
		l := s.Lookup
		v.Lookup = &l
	case ScreenStayDetails:
		v.Rooms = domain.Rooms
		v.RatePlans = domain.RatePlans
	}

	if s.Booking.BookingID != "" {
		v.Booking = &BookingView{
			BookingID: s.Booking.BookingID,
			Room:      domain.RoomLabel(s.StayConfig.RoomID),
			CheckIn:   s.StayConfig.CheckIn.Format(domain.DateLayout),
			CheckOut:  s.StayConfig.CheckOut.Format(domain.DateLayout),
			Nights:    s.Booking.Nights,
			Subtotal:  s.Booking.Subtotal.StringFixed(2),
			Total:     s.Booking.Total.StringFixed(2),
		}
	}
	if m.screen == ScreenReceiptPrinted {
		v.Receipt = &Receipt{ShareText: ShareText(s.Booking)}
	}
	return v
}

// ShareText is the receipt summary the shell offers to share or copy.
func ShareText(b domain.BookingResult) string {
	return fmt.Sprintf("Booking %s • Total $%s", b.BookingID, b.Total.StringFixed(2))
}
