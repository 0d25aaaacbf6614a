package flow

import (
	"context"

	"github.com/rs/zerolog/log"

	"frontdesk_kiosk/internal/adapters/observability"
	"frontdesk_kiosk/internal/app"
	"frontdesk_kiosk/internal/domain"
)

func (m *Machine) confirmCash(context.Context) error {
	p := &m.session.Payment
	p.Method = domain.MethodCash
	p.TxnType = domain.TxnCash
	p.TxnID = app.RandomRef("T-")
	p.Outcome = domain.OutcomeSuccess
	observability.ObservePayment(string(p.Method), string(p.Outcome))
	m.goTo(ScreenCashSuccess)
	return nil
}

// startProcessing enters Processing and arms the simulated gateway answer.
func (m *Machine) startProcessing(txnType string) {
	p := &m.session.Payment
	p.Method = domain.MethodCard
	p.TxnType = txnType
	p.TxnID = app.RandomRef("T-")
	p.Outcome = domain.OutcomePending

	m.goTo(ScreenProcessing)
	tok := m.token
	m.pending = m.clock.AfterFunc(m.cfg.ProcessingDelay, func() { m.resolvePayment(tok) })
}

// resolvePayment is the timer callback; it is dropped if the flow moved on.
func (m *Machine) resolvePayment(tok uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.screen != ScreenProcessing || m.token != tok {
		return
	}
	m.pending = nil

	p := &m.session.Payment
	if m.rnd() < m.cfg.SuccessRate {
		p.Outcome = domain.OutcomeSuccess
	} else {
		p.Outcome = domain.OutcomeDeclined
	}
	observability.ObservePayment(string(p.Method), string(p.Outcome))
	log.Info().Str("session", m.session.ID).Str("txn", p.TxnID).Str("type", p.TxnType).
		Str("outcome", string(p.Outcome)).Msg("payment resolved")

	if p.Outcome == domain.OutcomeSuccess {
		m.goTo(ScreenCardSuccess)
	} else {
		m.goTo(ScreenCardDeclined)
	}
}
