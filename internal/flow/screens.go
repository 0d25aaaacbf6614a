package flow

import (
	"context"

	"github.com/rs/zerolog/log"

	"frontdesk_kiosk/internal/domain"
)

// screenHandlers is the transition table: one entry per screen, even those
// that only advance on asynchronous events.
func (m *Machine) screenHandlers() map[Screen]map[Action]handler {
	to := func(s Screen) handler {
		return func(context.Context) error { m.goTo(s); return nil }
	}
	say := func(msg string) handler {
		return func(context.Context) error { m.notify(msg); return nil }
	}

	return map[Screen]map[Action]handler{
		ScreenDashboard: {
			ActCheckIn: func(context.Context) error {
				m.resetSession()
				m.goTo(ScreenGuestRegistration)
				return nil
			},
			ActCheckOut: say(msgCheckOutDisabled),
			ActStayOver: say(msgStayOverDisabled),
		},
		ScreenGuestRegistration: {
			ActScanID: to(ScreenScanner),
			ActBack:   to(ScreenDashboard),
			ActNext:   m.submitGuestForm,
		},
		ScreenScanner: {
			ActStartCamera: m.startCamera,
			ActStopCamera:  m.stopCamera,
			ActToggleTorch: m.toggleTorch,
			ActClose:       to(ScreenGuestRegistration),
		},
		ScreenReturningGuest: {
			ActProceed: to(ScreenStayDetails),
			ActCancel:  to(ScreenGuestRegistration),
		},
		ScreenNewGuest: {
			ActSkip: func(context.Context) error {
				m.session.GuestID = ""
				m.goTo(ScreenStayDetails)
				return nil
			},
			ActSave:   m.saveGuest,
			ActCancel: to(ScreenGuestRegistration),
		},
		ScreenStayDetails: {
			ActNext: m.submitStay,
		},
		ScreenBookingSummary: {
			ActPayCash: func(context.Context) error {
				m.session.Payment.Method = domain.MethodCash
				m.goTo(ScreenCashConfirm)
				return nil
			},
			ActPayCard: func(context.Context) error {
				m.session.Payment.Method = domain.MethodCard
				m.goTo(ScreenCardDetails)
				return nil
			},
			ActBack: to(ScreenStayDetails),
		},
		ScreenCardDetails: {
			ActTapToPay:     to(ScreenTapToPay),
			ActProceedToPay: m.submitCard,
			ActBack:         to(ScreenBookingSummary),
		},
		ScreenCashConfirm: {
			ActConfirmCash: m.confirmCash,
			ActBack:        to(ScreenBookingSummary),
		},
		ScreenTapToPay: {
			ActSimulateTap: func(context.Context) error {
				m.startProcessing(domain.TxnNFC)
				return nil
			},
			ActClose: to(ScreenCardDetails),
		},
		ScreenProcessing: {},
		ScreenCardSuccess: {
			ActPrintReceipt: to(ScreenReceiptPrinted),
		},
		ScreenCashSuccess: {
			ActPrintReceipt: to(ScreenReceiptPrinted),
		},
		ScreenCardDeclined: {
			ActRetry:        to(ScreenCardDetails),
			ActChangeMethod: to(ScreenBookingSummary),
		},
		ScreenReceiptPrinted: {
			ActDone: func(context.Context) error {
				log.Info().Str("session", m.session.ID).Str("booking", m.session.Booking.BookingID).Msg("check-in completed")
				m.resetSession()
				m.goTo(ScreenDashboard)
				return nil
			},
		},
	}
}

func (m *Machine) submitGuestForm(context.Context) error {
	if err := m.validate.GuestForm(m.session.Form); err != nil {
		if fields, ok := validationFields(err); ok {
			m.session.FormErrors = fields
			m.notify(msgRequiredFields)
		}
		return err
	}
	m.session.FormErrors = nil
	m.goTo(ScreenStayDetails)
	return nil
}

func (m *Machine) saveGuest(ctx context.Context) error {
	p, err := m.guests.Register(ctx, m.session.Form, m.clock.Now())
	if err != nil {
		log.Error().Err(err).Str("session", m.session.ID).Msg("save guest failed")
		m.notify(msgGuestSaveFailed)
		return err
	}
	m.session.GuestID = p.GuestID
	m.notify(msgGuestSaved)
	m.goTo(ScreenStayDetails)
	return nil
}

func (m *Machine) submitStay(context.Context) error {
	cfg, err := m.validate.Stay(m.session.Stay)
	if err != nil {
		if fields, ok := validationFields(err); ok {
			m.session.StayErrors = fields
			m.notify(msgStayRequired)
		}
		return err
	}
	m.session.StayErrors = nil
	m.session.StayConfig = cfg
	m.session.Booking = m.booking.Compute(cfg, m.session.Booking)
	m.goTo(ScreenBookingSummary)
	return nil
}

func (m *Machine) submitCard(context.Context) error {
	card := m.session.Payment.Card
	if err := m.validate.Card(card); err != nil {
		if fields, ok := validationFields(err); ok {
			m.session.CardErrors = fields
			m.notify(msgCardRequired)
		}
		return err
	}
	m.session.CardErrors = nil
	if card.Empty() {
		m.startProcessing(domain.TxnNFC)
	} else {
		m.startProcessing(domain.TxnManualCard)
	}
	return nil
}
