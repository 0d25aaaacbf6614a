package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO date format used by every date field the kiosk exchanges.
const DateLayout = "2006-01-02"

// StayForm holds the stay details exactly as entered on the stay screen.
type StayForm struct {
	CheckIn    string `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"checkOut" validate:"required,datetime=2006-01-02"`
	Adults     string `json:"adults" validate:"omitempty,number"`
	Children   string `json:"children" validate:"omitempty,number"`
	RoomID     string `json:"roomId" validate:"required"`
	RatePlanID string `json:"ratePlanId"`
	DailyRate  string `json:"dailyRate" validate:"required,money"`
	Deposit    string `json:"deposit" validate:"money"`
	Discount   string `json:"discount" validate:"money"`
}

// DefaultStayForm is the stay screen's initial state for a session starting on today.
func DefaultStayForm(today time.Time) StayForm {
	return StayForm{
		CheckIn:    today.Format(DateLayout),
		CheckOut:   today.AddDate(0, 0, 1).Format(DateLayout),
		Adults:     "1",
		Children:   "0",
		RoomID:     "101",
		RatePlanID: "standard",
		DailyRate:  "119",
		Deposit:    "0",
		Discount:   "0",
	}
}

// StayConfig is a validated, parsed StayForm.
type StayConfig struct {
	CheckIn    time.Time
	CheckOut   time.Time
	Adults     int
	Children   int
	RoomID     string
	RatePlanID string
	DailyRate  decimal.Decimal
	Deposit    decimal.Decimal
	Discount   decimal.Decimal
}

type BookingResult struct {
	Nights    int             `json:"nights"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Total     decimal.Decimal `json:"total"`
	BookingID string          `json:"bookingId"`
}
