package aamva

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ParseDate reads an 8-digit AAMVA date in either YYYYMMDD or MMDDYYYY order.
// Non-digit separators are ignored. Dates that do not exist on the calendar
// are rejected.
func ParseDate(s string) (time.Time, bool) {
	t := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
	if len(t) != 8 {
		return time.Time{}, false
	}

	if y, err := strconv.Atoi(t[:4]); err == nil && plausibleYear(y) {
		if d, ok := civilDate(t[:4], t[4:6], t[6:8]); ok {
			return d, true
		}
	}
	return civilDate(t[4:8], t[:2], t[2:4])
}

func plausibleYear(y int) bool { return y >= 1900 && y <= 2099 }

func civilDate(ys, ms, ds string) (time.Time, bool) {
	y, err1 := strconv.Atoi(ys)
	m, err2 := strconv.Atoi(ms)
	d, err3 := strconv.Atoi(ds)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	date := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if date.Day() != d {
		return time.Time{}, false
	}
	return date, true
}

// Age is the number of completed years between dob and now, floored at 0.
func Age(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return max(0, age)
}
