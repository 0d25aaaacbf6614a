package aamva

import "github.com/samber/lo"

// USStates is the state/DC abbreviation list offered by the registration form.
var USStates = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA", "HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD", "MA", "MI", "MN",
	"MS", "MO", "MT", "NE", "NV", "NH", "NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC", "SD", "TN", "TX", "UT", "VT", "VA",
	"WA", "WV", "WI", "WY", "DC",
}

func IsUSState(code string) bool { return lo.Contains(USStates, code) }
