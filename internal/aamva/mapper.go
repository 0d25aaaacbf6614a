package aamva

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"frontdesk_kiosk/internal/domain"
)

// StateMismatchNote is attached to the state field when the scanned value is not in USStates.
const StateMismatchNote = "State value from scan doesn't match list."

var leadingZip = regexp.MustCompile(`^(\d{5})`)

// MapResult is the form after a scan, plus advisory notes keyed by form field.
// Notes never block the flow; they prompt the operator to fix a value by hand.
type MapResult struct {
	Form  domain.GuestForm
	Notes map[string]string
}

// ApplyToForm copies form and overlays every mappable element from fields.
// now anchors the age calculation.
func ApplyToForm(fields FieldMap, raw string, form domain.GuestForm, now time.Time) MapResult {
	out := form
	notes := map[string]string{}

	out.RawScanPayload = raw

	if name := joinNonEmpty(fields.Get(FirstName), fields.Get(MiddleName), fields.Get(LastName)); name != "" {
		out.FullName = name
	}

	if v := fields.Get(Street); v != "" {
		out.StreetAddress = v
	}
	if v := fields.Get(City); v != "" {
		out.City = v
	}

	if st := strings.ToUpper(fields.Get(State)); st != "" {
		if IsUSState(st) {
			out.State = st
		} else {
			out.State = ""
			notes["state"] = StateMismatchNote
		}
	}

	if z := fields.Get(PostalCode); z != "" {
		out.Zip = normalizeZip(z)
	}

	if g := normalizeGender(fields.Get(Sex)); g != "" {
		out.Gender = g
	}

	if v := fields.Get(DateOfBirth); v != "" {
		if dob, ok := ParseDate(v); ok {
			out.DOB = dob.Format(domain.DateLayout)
			out.Age = strconv.Itoa(Age(dob, now))
		}
	}

	// Decoded text rarely exposes the subfile type reliably; assume a driver's license.
	if out.IDType == "" {
		out.IDType = domain.DefaultIDType
	}

	if v := fields.Get(IDNumber); v != "" {
		out.IDNumber = v
	}

	return MapResult{Form: out, Notes: notes}
}

func joinNonEmpty(parts ...string) string {
	kept := lo.Filter(parts, func(p string, _ int) bool { return strings.TrimSpace(p) != "" })
	return strings.TrimSpace(strings.Join(kept, " "))
}

// normalizeZip truncates ZIP+4 to its first five digits.
func normalizeZip(z string) string {
	if m := leadingZip.FindStringSubmatch(z); m != nil {
		return m[1]
	}
	return z
}

func normalizeGender(v string) string {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "":
		return ""
	case "1", "M", "MALE":
		return domain.GenderMale
	case "2", "F", "FEMALE":
		return domain.GenderFemale
	default:
		return domain.GenderOther
	}
}
