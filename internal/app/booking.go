package app

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/shopspring/decimal"

	"frontdesk_kiosk/internal/domain"
)

// BookingCalculator prices a stay. The zero value is ready to use.
type BookingCalculator struct {
	// NewID overrides booking id generation (tests).
	NewID func() string
}

// Compute returns nights, subtotal and total for stay. The booking id of prev is
// kept when set so that going back and forth keeps one id per session.
func (c BookingCalculator) Compute(stay domain.StayConfig, prev domain.BookingResult) domain.BookingResult {
	nights := Nights(stay)
	subtotal := stay.DailyRate.Mul(decimal.NewFromInt(int64(nights)))
	total := decimal.Max(decimal.Zero, subtotal.Add(stay.Deposit).Sub(stay.Discount))

	id := prev.BookingID
	if id == "" {
		id = c.newID()
	}
	return domain.BookingResult{
		Nights:    nights,
		Subtotal:  subtotal,
		Total:     total,
		BookingID: id,
	}
}

func (c BookingCalculator) newID() string {
	if c.NewID != nil {
		return c.NewID()
	}
	return RandomRef("B-")
}

// Nights is the stay length in whole days, at least 1.
func Nights(stay domain.StayConfig) int {
	days := stay.CheckOut.Sub(stay.CheckIn).Hours() / 24
	return max(1, int(math.Round(days)))
}

// RandomRef returns prefix followed by 6 random digits (booking and transaction refs).
func RandomRef(prefix string) string {
	return fmt.Sprintf("%s%06d", prefix, 100000+rand.Intn(900000))
}
