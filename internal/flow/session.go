package flow

import (
	"time"

	"github.com/google/uuid"

	"frontdesk_kiosk/internal/domain"
)

// Session is everything one check-in owns. It is discarded on completion or discard.
type Session struct {
	ID         string
	Form       domain.GuestForm
	FormErrors map[string]string
	Lookup     domain.LookupResult
	GuestID    string
	Stay       domain.StayForm
	StayErrors map[string]string
	StayConfig domain.StayConfig
	Booking    domain.BookingResult
	Payment    domain.PaymentState
	CardErrors map[string]string
}

func newSession(today time.Time) Session {
	return Session{
		ID:   uuid.NewString(),
		Stay: domain.DefaultStayForm(today),
	}
}
