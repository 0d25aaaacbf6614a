package domain

import "strings"

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// DefaultIDType is assumed when a scan fills the form without a document type.
const DefaultIDType = "DL"

// GuestForm is the registration form the operator fills (or a scan auto-fills)
// during one check-in session.
type GuestForm struct {
	FullName       string `json:"fullName" validate:"required"`
	StreetAddress  string `json:"streetAddress" validate:"required"`
	City           string `json:"city" validate:"required"`
	State          string `json:"state" validate:"required"`
	Zip            string `json:"zip" validate:"zip5"`
	Gender         string `json:"gender" validate:"required"`
	Age            string `json:"age" validate:"required,numeric"`
	DOB            string `json:"dob,omitempty"` // ISO date
	IDType         string `json:"idType"`
	IDNumber       string `json:"idNumber" validate:"required"`
	RawScanPayload string `json:"rawScanPayload,omitempty"`
}

type GuestProfile struct {
	GuestID        string `json:"guestId"`
	FullName       string `json:"fullName"`
	IDType         string `json:"idType"`
	IDNumber       string `json:"idNumber"`
	Rating         string `json:"rating"`
	ActiveSince    string `json:"activeSince"`
	LatestActivity string `json:"latestActivity"`
}

// IdentityKey normalizes the (idType, idNumber) uniqueness key of a profile.
func IdentityKey(idType, idNumber string) string {
	return strings.ToUpper(strings.TrimSpace(idType)) + ":" + strings.TrimSpace(idNumber)
}

func (p GuestProfile) Key() string { return IdentityKey(p.IDType, p.IDNumber) }

type LookupResult struct {
	Found   bool         `json:"found"`
	Profile GuestProfile `json:"profile"`
}
