package app

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"frontdesk_kiosk/internal/aamva"
	"frontdesk_kiosk/internal/domain"
)

/********** alias registry for exported guest records **********/

var profileAliases = map[string][]string{
	"guest_id":        {"guestId", "guest_id", "id", "profile.id"},
	"full_name":       {"fullName", "full_name", "name", "guest.name", "profile.name"},
	"first_name":      {"firstName", "first_name", "given_name", "guest.first_name"},
	"last_name":       {"lastName", "last_name", "surname", "family_name", "guest.last_name"},
	"id_type":         {"idType", "id_type", "document.type", "documentType"},
	"id_number":       {"idNumber", "id_number", "document.number", "documentNumber", "license_number"},
	"rating":          {"rating", "tier", "loyalty.tier"},
	"active_since":    {"activeSince", "active_since", "created_at", "createdAt", "member_since"},
	"latest_activity": {"latestActivity", "latest_activity", "last_stay", "lastStay", "updated_at"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the value at path as a trimmed string, or "".
// Numbers are accepted since some exports store document numbers as JSON numbers.
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, key string) string {
	for _, p := range profileAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// isoDate accepts ISO dates and RFC 3339 timestamps and keeps the date part.
func isoDate(s string) string {
	if s == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(domain.DateLayout)
	}
	if t, err := time.Parse(domain.DateLayout, s); err == nil {
		return t.Format(domain.DateLayout)
	}
	return ""
}

// stableGuestID derives an id from the identity key so that re-importing the
// same record keeps the same id.
func stableGuestID(key string) string {
	sum := sha1.Sum([]byte(key))
	return "G-" + strings.ToUpper(hex.EncodeToString(sum[:])[:8])
}

/********** record mappers **********/

// mapExportedProfile maps one guest record exported by another property system.
// ok is false when the record carries no identity number.
func mapExportedProfile(r map[string]any, today time.Time) (domain.GuestProfile, bool) {
	p := domain.GuestProfile{
		GuestID:        firstNonEmptyAlias(r, "guest_id"),
		FullName:       firstNonEmptyAlias(r, "full_name"),
		IDType:         strings.ToUpper(firstNonEmptyAlias(r, "id_type")),
		IDNumber:       firstNonEmptyAlias(r, "id_number"),
		Rating:         strings.ToUpper(firstNonEmptyAlias(r, "rating")),
		ActiveSince:    isoDate(firstNonEmptyAlias(r, "active_since")),
		LatestActivity: isoDate(firstNonEmptyAlias(r, "latest_activity")),
	}
	if p.IDNumber == "" {
		return domain.GuestProfile{}, false
	}
	if p.FullName == "" {
		p.FullName = strings.TrimSpace(firstNonEmptyAlias(r, "first_name") + " " + firstNonEmptyAlias(r, "last_name"))
	}
	return fillProfileDefaults(p, today), true
}

// mapScannedProfile maps a decoded license payload.
func mapScannedProfile(fields aamva.FieldMap, raw string, today time.Time) (domain.GuestProfile, bool) {
	res := aamva.ApplyToForm(fields, raw, domain.GuestForm{}, today)
	if res.Form.IDNumber == "" {
		return domain.GuestProfile{}, false
	}
	return fillProfileDefaults(domain.GuestProfile{
		FullName: res.Form.FullName,
		IDType:   res.Form.IDType,
		IDNumber: res.Form.IDNumber,
	}, today), true
}

func fillProfileDefaults(p domain.GuestProfile, today time.Time) domain.GuestProfile {
	if p.IDType == "" {
		p.IDType = domain.DefaultIDType
	}
	if p.GuestID == "" {
		p.GuestID = stableGuestID(p.Key())
	}
	if p.Rating == "" {
		p.Rating = newGuestRating
	}
	if p.ActiveSince == "" {
		p.ActiveSince = today.Format(domain.DateLayout)
	}
	if p.LatestActivity == "" {
		p.LatestActivity = p.ActiveSince
	}
	return p
}
