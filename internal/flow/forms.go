package flow

import (
	"fmt"

	"frontdesk_kiosk/internal/domain"
)

// UpdateGuestForm replaces the registration form. Errors of edited fields are cleared.
func (m *Machine) UpdateGuestForm(f domain.GuestForm) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editableOn(ScreenGuestRegistration); err != nil {
		return err
	}
	if f.RawScanPayload == "" {
		f.RawScanPayload = m.session.Form.RawScanPayload
	}
	m.session.FormErrors = clearEdited(m.session.FormErrors, guestValues(m.session.Form), guestValues(f))
	m.session.Form = f
	return nil
}

func (m *Machine) UpdateStay(s domain.StayForm) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editableOn(ScreenStayDetails); err != nil {
		return err
	}
	m.session.StayErrors = clearEdited(m.session.StayErrors, stayValues(m.session.Stay), stayValues(s))
	m.session.Stay = s
	return nil
}

func (m *Machine) UpdateCard(c domain.CardFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editableOn(ScreenCardDetails); err != nil {
		return err
	}
	m.session.CardErrors = clearEdited(m.session.CardErrors, cardValues(m.session.Payment.Card), cardValues(c))
	m.session.Payment.Card = c
	return nil
}

func (m *Machine) editableOn(s Screen) error {
	if m.screen != s {
		return fmt.Errorf("%w: edit of %s on %s", domain.ErrActionNotAllowed, s, m.screen)
	}
	return nil
}

// clearEdited drops the error of every field whose value changed.
func clearEdited(errs, before, after map[string]string) map[string]string {
	if len(errs) == 0 {
		return errs
	}
	out := make(map[string]string, len(errs))
	for k, msg := range errs {
		if before[k] == after[k] {
			out[k] = msg
		}
	}
	return out
}

func guestValues(f domain.GuestForm) map[string]string {
	return map[string]string{
		"fullName": f.FullName, "streetAddress": f.StreetAddress, "city": f.City, "state": f.State,
		"zip": f.Zip, "gender": f.Gender, "age": f.Age, "dob": f.DOB, "idType": f.IDType, "idNumber": f.IDNumber,
	}
}

func stayValues(s domain.StayForm) map[string]string {
	return map[string]string{
		"checkIn": s.CheckIn, "checkOut": s.CheckOut, "adults": s.Adults, "children": s.Children,
		"roomId": s.RoomID, "ratePlanId": s.RatePlanID, "dailyRate": s.DailyRate,
		"deposit": s.Deposit, "discount": s.Discount,
	}
}

func cardValues(c domain.CardFields) map[string]string {
	return map[string]string{
		"card_number": c.Number, "card_expiry": c.Expiry, "card_cvv": c.CVV, "card_name": c.Name, "card_zip": c.Zip,
	}
}
