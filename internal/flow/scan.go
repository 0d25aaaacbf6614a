package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"frontdesk_kiosk/internal/aamva"
	"frontdesk_kiosk/internal/adapters/observability"
	"frontdesk_kiosk/internal/domain"
)

func (m *Machine) startCamera(ctx context.Context) error {
	tok := m.token
	publish := func(text string) {
		if err := m.HandleScan(context.Background(), tok, text); err != nil && !errors.Is(err, domain.ErrStale) {
			log.Warn().Err(err).Msg("scan not applied")
		}
	}
	// the polling loop outlives the request that started it
	if err := m.scanner.Start(context.WithoutCancel(ctx), publish); err != nil {
		log.Warn().Err(err).Msg("camera start failed")
		m.notify(msgCameraBlocked)
		return nil
	}
	m.notify(msgScanning)
	return nil
}

func (m *Machine) stopCamera(context.Context) error {
	m.scanner.Stop()
	m.notify(msgStopped)
	return nil
}

func (m *Machine) toggleTorch(context.Context) error {
	err := m.scanner.ToggleTorch()
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoCamera):
		m.notify(msgStartCamera)
	default:
		m.notify(msgNoTorch)
	}
	return nil
}

// PublishScan applies text decoded by the shell itself under the current token.
func (m *Machine) PublishScan(ctx context.Context, text string) error {
	m.mu.Lock()
	if m.screen != ScreenScanner {
		s := m.screen
		m.mu.Unlock()
		return fmt.Errorf("%w: scan on %s", domain.ErrActionNotAllowed, s)
	}
	tok := m.token
	m.mu.Unlock()
	return m.HandleScan(ctx, tok, text)
}

// ScanImage decodes a still image outside the lock and applies the result
// if the scanner screen is still the one it was submitted to.
func (m *Machine) ScanImage(ctx context.Context, data []byte) error {
	m.mu.Lock()
	if m.screen != ScreenScanner {
		s := m.screen
		m.mu.Unlock()
		return fmt.Errorf("%w: image scan on %s", domain.ErrActionNotAllowed, s)
	}
	tok := m.token
	m.mu.Unlock()

	text, err := m.scanner.DecodeImage(ctx, data)
	if err != nil {
		observability.ObserveScan("failed")
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.token != tok {
			return domain.ErrStale
		}
		if errors.Is(err, domain.ErrDecodeFailure) {
			m.notify(msgAutoFillFailed)
		} else {
			log.Warn().Err(err).Msg("image scan failed")
			m.notify(msgBadImage)
		}
		return nil
	}
	return m.HandleScan(ctx, tok, text)
}

// HandleScan processes one decoded payload: stale and duplicate payloads are
// dropped, a payload that does not decode leaves the form as it is, and a good
// one fills the form and routes to the returning- or new-guest screen.
func (m *Machine) HandleScan(ctx context.Context, tok uint64, text string) error {
	if text == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.screen != ScreenScanner || m.token != tok {
		observability.ObserveScan("stale")
		return domain.ErrStale
	}
	if !m.dedup.accept(text, m.clock.Now()) {
		observability.ObserveScan("duplicate")
		return nil
	}

	fields, err := aamva.Decode(text)
	if err != nil {
		observability.ObserveScan("failed")
		log.Info().Err(err).Str("session", m.session.ID).Msg("scan not decoded")
		m.notify(msgAutoFillFailed)
		return nil
	}
	observability.ObserveScan("decoded")

	res := aamva.ApplyToForm(fields, text, m.session.Form, m.clock.Now())
	m.session.Form = res.Form
	m.session.FormErrors = nil
	if len(res.Notes) > 0 {
		m.session.FormErrors = res.Notes
	}
	m.notify(msgAutoFilled)

	idType := m.session.Form.IDType
	if idType == "" {
		idType = domain.DefaultIDType
	}
	lookup, err := m.guests.Lookup(ctx, idType, m.session.Form.IDNumber)
	if err != nil {
		log.Error().Err(err).Str("session", m.session.ID).Msg("guest lookup failed")
		m.notify(msgLookupFailed)
		lookup = domain.LookupResult{}
	}
	m.session.Lookup = lookup
	if lookup.Found {
		m.session.GuestID = lookup.Profile.GuestID
		m.goTo(ScreenReturningGuest)
	} else {
		m.session.GuestID = ""
		m.goTo(ScreenNewGuest)
	}
	return nil
}
