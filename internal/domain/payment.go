package domain

type PaymentMethod string

const (
	MethodCash PaymentMethod = "cash"
	MethodCard PaymentMethod = "card"
)

type PaymentOutcome string

const (
	OutcomePending  PaymentOutcome = "pending"
	OutcomeSuccess  PaymentOutcome = "success"
	OutcomeDeclined PaymentOutcome = "declined"
)

// Transaction types shown on the result screens.
const (
	TxnCash       = "Cash"
	TxnManualCard = "Manual Card"
	TxnNFC        = "NFC"
)

// CardFields is the manual card entry form. Either every field is filled or none.
type CardFields struct {
	Number string `json:"number" validate:"required"`
	Expiry string `json:"expiry" validate:"required"`
	CVV    string `json:"cvv" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Zip    string `json:"zip" validate:"required"`
}

func (c CardFields) values() []string { return []string{c.Number, c.Expiry, c.CVV, c.Name, c.Zip} }

// Empty reports whether no card field carries a non-blank value.
func (c CardFields) Empty() bool {
	for _, v := range c.values() {
		if trimmed(v) != "" {
			return false
		}
	}
	return true
}

type PaymentState struct {
	Method  PaymentMethod  `json:"method,omitempty"`
	Card    CardFields     `json:"card"`
	TxnType string         `json:"txnType,omitempty"`
	TxnID   string         `json:"txnId,omitempty"`
	Outcome PaymentOutcome `json:"outcome,omitempty"`
}
