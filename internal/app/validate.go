package app

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"frontdesk_kiosk/internal/domain"
)

var zip5 = regexp.MustCompile(`^\d{5}$`)

// Card field keys as the card screen reports them.
var cardErrorKeys = map[string]string{
	"number": "card_number",
	"expiry": "card_expiry",
	"cvv":    "card_cvv",
	"name":   "card_name",
	"zip":    "card_zip",
}

// Validator checks the three operator forms and reports one message per field.
type Validator struct {
	v *validator.Validate
	// CheckCapacity additionally rejects party sizes the room cannot host.
	CheckCapacity bool
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("zip5", func(fl validator.FieldLevel) bool {
		return zip5.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		_, ok := parseMoney(fl.Field().String())
		return ok
	})
	return &Validator{v: v}
}

// GuestForm returns a *domain.ValidationError listing every invalid field.
func (x *Validator) GuestForm(f domain.GuestForm) error {
	f.FullName = strings.TrimSpace(f.FullName)
	f.StreetAddress = strings.TrimSpace(f.StreetAddress)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.Gender = strings.TrimSpace(f.Gender)
	f.Age = strings.TrimSpace(f.Age)
	f.IDNumber = strings.TrimSpace(f.IDNumber)
	return x.check(f, nil)
}

// Stay validates the stay form and parses it.
func (x *Validator) Stay(s domain.StayForm) (domain.StayConfig, error) {
	s.CheckIn = strings.TrimSpace(s.CheckIn)
	s.CheckOut = strings.TrimSpace(s.CheckOut)
	s.Adults = strings.TrimSpace(s.Adults)
	s.Children = strings.TrimSpace(s.Children)
	s.RoomID = strings.TrimSpace(s.RoomID)
	s.DailyRate = strings.TrimSpace(s.DailyRate)

	fields := map[string]string{}
	if err := x.check(s, fields); err != nil {
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			return domain.StayConfig{}, err
		}
	}
	_, badIn := fields["checkIn"]
	_, badOut := fields["checkOut"]
	if !badIn && !badOut {
		in, _ := time.Parse(domain.DateLayout, s.CheckIn)
		out, _ := time.Parse(domain.DateLayout, s.CheckOut)
		if !out.After(in) {
			fields["checkOut"] = "Must be after check-in"
		}
	}
	if len(fields) > 0 {
		return domain.StayConfig{}, &domain.ValidationError{Fields: fields}
	}

	cfg, err := ParseStay(s)
	if err != nil {
		return domain.StayConfig{}, err
	}
	if x.CheckCapacity {
		if room, ok := domain.FindRoom(cfg.RoomID); ok {
			if cfg.Adults > room.MaxAdults {
				fields["adults"] = "At most " + strconv.Itoa(room.MaxAdults) + " adults in this room"
			}
			if cfg.Children > room.MaxChildren {
				fields["children"] = "At most " + strconv.Itoa(room.MaxChildren) + " children in this room"
			}
		}
		if len(fields) > 0 {
			return domain.StayConfig{}, &domain.ValidationError{Fields: fields}
		}
	}
	return cfg, nil
}

// Card accepts an all-empty form (tap payment) or a complete one; a partial
// form reports every missing field.
func (x *Validator) Card(c domain.CardFields) error {
	if c.Empty() {
		return nil
	}
	c.Number = strings.TrimSpace(c.Number)
	c.Expiry = strings.TrimSpace(c.Expiry)
	c.CVV = strings.TrimSpace(c.CVV)
	c.Name = strings.TrimSpace(c.Name)
	c.Zip = strings.TrimSpace(c.Zip)
	return x.check(c, nil, cardErrorKeys)
}

// check runs the struct validator. Messages land in fields when it is non-nil;
// rename maps JSON names to reported keys.
func (x *Validator) check(s any, fields map[string]string, rename ...map[string]string) error {
	err := x.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	if fields == nil {
		fields = map[string]string{}
	}
	for _, fe := range verrs {
		key := fe.Field()
		for _, m := range rename {
			if k, ok := m[key]; ok {
				key = k
			}
		}
		if _, seen := fields[key]; !seen {
			fields[key] = validationMessage(fe)
		}
	}
	return &domain.ValidationError{Fields: fields}
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		if e.Field() == "age" {
			return "Valid age required"
		}
		return "Required"
	case "zip5":
		return "5-digit ZIP required"
	case "numeric":
		return "Valid age required"
	case "money":
		return "Must be a number ≥ 0"
	case "datetime":
		return "Must be a date (YYYY-MM-DD)"
	case "number":
		return "Must be a whole number"
	default:
		return "Invalid value"
	}
}

// parseMoney accepts "" (zero) or a non-negative decimal.
func parseMoney(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// ParseStay converts the entered strings. Blank counts default to 1 adult and 0 children.
func ParseStay(s domain.StayForm) (domain.StayConfig, error) {
	in, err := time.Parse(domain.DateLayout, strings.TrimSpace(s.CheckIn))
	if err != nil {
		return domain.StayConfig{}, &domain.ValidationError{Fields: map[string]string{"checkIn": "Must be a date (YYYY-MM-DD)"}}
	}
	out, err := time.Parse(domain.DateLayout, strings.TrimSpace(s.CheckOut))
	if err != nil {
		return domain.StayConfig{}, &domain.ValidationError{Fields: map[string]string{"checkOut": "Must be a date (YYYY-MM-DD)"}}
	}
	cfg := domain.StayConfig{
		CheckIn:    in,
		CheckOut:   out,
		Adults:     atoiOr(s.Adults, 1),
		Children:   atoiOr(s.Children, 0),
		RoomID:     strings.TrimSpace(s.RoomID),
		RatePlanID: strings.TrimSpace(s.RatePlanID),
	}
	var ok bool
	if cfg.DailyRate, ok = parseMoney(s.DailyRate); !ok {
		return domain.StayConfig{}, &domain.ValidationError{Fields: map[string]string{"dailyRate": "Must be a number ≥ 0"}}
	}
	if cfg.Deposit, ok = parseMoney(s.Deposit); !ok {
		return domain.StayConfig{}, &domain.ValidationError{Fields: map[string]string{"deposit": "Must be a number ≥ 0"}}
	}
	if cfg.Discount, ok = parseMoney(s.Discount); !ok {
		return domain.StayConfig{}, &domain.ValidationError{Fields: map[string]string{"discount": "Must be a number ≥ 0"}}
	}
	return cfg, nil
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
