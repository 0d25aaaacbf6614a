// Package aamva decodes the text payload of North American driver's license
// (AAMVA PDF417) barcodes and maps it onto the guest registration form.
package aamva

import (
	"regexp"
	"sort"
	"strings"

	"frontdesk_kiosk/internal/domain"
)

// Element codes the kiosk reads.
const (
	FirstName   = "DAC"
	MiddleName  = "DAD"
	LastName    = "DCS"
	Street      = "DAG"
	City        = "DAI"
	State       = "DAJ"
	PostalCode  = "DAK"
	Sex         = "DBC"
	DateOfBirth = "DBB"
	IDNumber    = "DAQ"
)

// minStrictFields is the number of line-delimited elements below which the
// payload is assumed to lack clean line breaks.
const minStrictFields = 4

var (
	elementLine = regexp.MustCompile(`^([A-Z0-9]{3})(.*)$`)

	// Header line with the subfile type and first element glued after the
	// designator block, e.g. "ANSI 636014040002DL00410278ZC03190024DLDAQ...".
	headerElement = regexp.MustCompile(`^(?:ANSI |AAMVA)[^\n]*?(?:DL|ID)(D[A-Z]{2}.*)$`)

	// Elements looked for when sweeping a payload without line breaks. Rare
	// codes that collide with common name prefixes (DAN, DAV) are left out.
	sweepCodes = []string{
		"DCA", "DCB", "DCD", "DBA", "DCS", "DAC", "DAD", "DBD", "DBB", "DBC", "DAY", "DAU",
		"DAG", "DAH", "DAI", "DAJ", "DAK", "DAQ", "DCF", "DCG", "DDE", "DDF", "DDG", "DAZ",
		"DCK", "DDA", "DDB", "DDK", "DDL",
	}
	sweepPattern    = regexp.MustCompile(strings.Join(sweepCodes, "|"))
	anchoredPattern = regexp.MustCompile(`(?:^|[\n\x1e])(` + strings.Join(sweepCodes, "|") + `)`)
)

// FieldMap maps 3-character element codes to their trimmed values.
type FieldMap map[string]string

// Get returns the trimmed value for code, or "".
func (f FieldMap) Get(code string) string { return strings.TrimSpace(f[code]) }

// set keeps the first non-empty value seen for a code.
func (f FieldMap) set(code, val string) {
	if cur, ok := f[code]; ok && cur != "" {
		return
	}
	f[code] = val
}

// Decode parses a raw barcode payload. It fails with a domain.ErrDecodeFailure
// unless a last name, first name or ID number is present.
func Decode(raw string) (FieldMap, error) {
	if raw == "" {
		return nil, domain.ErrEmptyPayload
	}
	text := normalize(raw)

	fields := FieldMap{}
	for _, line := range strings.Split(text, "\n") {
		line = stripSubfileDesignator(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		m := elementLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fields.set(m[1], strings.TrimSpace(m[2]))
	}

	if len(fields) < minStrictFields {
		swept := sweep(text)
		for k, v := range fields {
			swept.set(k, v)
		}
		fields = swept
	}

	if fields.Get(LastName) == "" && fields.Get(FirstName) == "" && fields.Get(IDNumber) == "" {
		return fields, domain.ErrUnrecognizedPayload
	}
	return fields, nil
}

func normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\x00", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// stripSubfileDesignator turns "DLDAQ123" (subfile type glued to its first
// element) into "DAQ123", also when it trails the file header.
func stripSubfileDesignator(line string) string {
	if m := headerElement.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	if len(line) < 5 {
		return line
	}
	if (strings.HasPrefix(line, "DL") || strings.HasPrefix(line, "ID")) && line[2] == 'D' && isUpper(line[3]) && isUpper(line[4]) {
		return line[2:]
	}
	return line
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

// sweep locates element codes at record boundaries first, then anywhere in
// the text. Boundary hits take precedence. Every value ends at the next known
// code, whichever pass found it.
func sweep(text string) FieldMap {
	all := sweepPattern.FindAllStringSubmatchIndex(text, -1)
	cuts := make([]int, len(all))
	for i, loc := range all {
		cuts[i] = loc[0]
	}

	out := sweepAt(text, anchoredPattern.FindAllStringSubmatchIndex(text, -1), cuts)
	for k, v := range sweepAt(text, all, cuts) {
		out.set(k, v)
	}
	return out
}

// sweepAt cuts the text at each located code; a value runs until the next
// cut or the next separator. The code is the last submatch of each location
// and cuts must be sorted.
func sweepAt(text string, locs [][]int, cuts []int) FieldMap {
	out := FieldMap{}
	for _, loc := range locs {
		start, stop := loc[len(loc)-2], loc[len(loc)-1]
		end := len(text)
		if i := sort.SearchInts(cuts, stop); i < len(cuts) {
			end = cuts[i]
		}
		val := text[stop:end]
		if j := strings.IndexAny(val, "\n\x1e\x1d"); j >= 0 {
			val = val[:j]
		}
		out.set(text[start:stop], strings.TrimSpace(val))
	}
	return out
}
