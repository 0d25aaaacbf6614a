package aamva_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk_kiosk/internal/aamva"
	"frontdesk_kiosk/internal/domain"
)

var now = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

func mapFields(fields aamva.FieldMap) aamva.MapResult {
	return aamva.ApplyToForm(fields, "raw", domain.GuestForm{}, now)
}

func TestApplyToForm_FullName(t *testing.T) {
	cases := []struct {
		name   string
		fields aamva.FieldMap
		want   string
	}{
		{"all parts", aamva.FieldMap{"DAC": "JANE", "DAD": "QUINN", "DCS": "SAMPLE"}, "JANE QUINN SAMPLE"},
		{"no middle", aamva.FieldMap{"DAC": "JANE", "DAD": "", "DCS": "SAMPLE"}, "JANE SAMPLE"},
		{"last only", aamva.FieldMap{"DCS": " SAMPLE "}, "SAMPLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, mapFields(tc.fields).Form.FullName)
		})
	}
}

func TestApplyToForm_EmptyNameKeepsExisting(t *testing.T) {
	res := aamva.ApplyToForm(aamva.FieldMap{"DAQ": "1"}, "raw", domain.GuestForm{FullName: "Typed By Hand"}, now)
	assert.Equal(t, "Typed By Hand", res.Form.FullName)
}

func TestApplyToForm_State(t *testing.T) {
	res := mapFields(aamva.FieldMap{"DAJ": " fl "})
	assert.Equal(t, "FL", res.Form.State)
	assert.Empty(t, res.Notes)

	res = aamva.ApplyToForm(aamva.FieldMap{"DAJ": "ON"}, "raw", domain.GuestForm{State: "NY"}, now)
	assert.Equal(t, "", res.Form.State)
	assert.Equal(t, aamva.StateMismatchNote, res.Notes["state"])
}

func TestApplyToForm_Zip(t *testing.T) {
	assert.Equal(t, "90210", mapFields(aamva.FieldMap{"DAK": "90210"}).Form.Zip)
	assert.Equal(t, "90210", mapFields(aamva.FieldMap{"DAK": "902101234"}).Form.Zip)
	assert.Equal(t, "90210", mapFields(aamva.FieldMap{"DAK": "90210-1234"}).Form.Zip)
	assert.Equal(t, "K1A 0B1", mapFields(aamva.FieldMap{"DAK": " K1A 0B1 "}).Form.Zip)
}

func TestApplyToForm_Gender(t *testing.T) {
	cases := map[string]string{
		"1": domain.GenderMale, "m": domain.GenderMale, "Male": domain.GenderMale,
		"2": domain.GenderFemale, "F": domain.GenderFemale, "female": domain.GenderFemale,
		"9": domain.GenderOther, "X": domain.GenderOther,
	}
	for in, want := range cases {
		assert.Equal(t, want, mapFields(aamva.FieldMap{"DBC": in}).Form.Gender, in)
	}
	assert.Equal(t, "", mapFields(aamva.FieldMap{"DBC": " "}).Form.Gender)
}

func TestApplyToForm_DateOfBirth(t *testing.T) {
	res := aamva.ApplyToForm(aamva.FieldMap{"DBB": "19900101"}, "raw", domain.GuestForm{}, time.Now())
	assert.Equal(t, "1990-01-01", res.Form.DOB)
	assert.Equal(t, strconv.Itoa(time.Now().Year()-1990), res.Form.Age)

	res = mapFields(aamva.FieldMap{"DBB": "07041990"})
	assert.Equal(t, "1990-07-04", res.Form.DOB)
	assert.Equal(t, "35", res.Form.Age)

	res = aamva.ApplyToForm(aamva.FieldMap{"DBB": "1234"}, "raw", domain.GuestForm{DOB: "1980-05-05", Age: "45"}, now)
	assert.Equal(t, "1980-05-05", res.Form.DOB)
	assert.Equal(t, "45", res.Form.Age)
}

func TestApplyToForm_IDTypeDefaultAndRaw(t *testing.T) {
	res := aamva.ApplyToForm(aamva.FieldMap{"DAQ": " S1234567 "}, "the raw text", domain.GuestForm{}, now)
	assert.Equal(t, "DL", res.Form.IDType)
	assert.Equal(t, "S1234567", res.Form.IDNumber)
	assert.Equal(t, "the raw text", res.Form.RawScanPayload)

	res = aamva.ApplyToForm(aamva.FieldMap{"DAQ": "1"}, "raw", domain.GuestForm{IDType: "ID"}, now)
	assert.Equal(t, "ID", res.Form.IDType)
}

func TestApplyToForm_DoesNotMutateInput(t *testing.T) {
	in := domain.GuestForm{City: "Reno"}
	_ = aamva.ApplyToForm(aamva.FieldMap{"DAI": "MIAMI"}, "raw", in, now)
	assert.Equal(t, "Reno", in.City)
}

func TestDecodeAndMap_SamplePayload(t *testing.T) {
	fields, err := aamva.Decode(samplePayload)
	require.NoError(t, err)
	res := aamva.ApplyToForm(fields, samplePayload, domain.GuestForm{}, now)

	f := res.Form
	assert.Equal(t, "JANE QUINN SAMPLE", f.FullName)
	assert.Equal(t, "123 MAIN ST", f.StreetAddress)
	assert.Equal(t, "MIAMI", f.City)
	assert.Equal(t, "FL", f.State)
	assert.Equal(t, "33101", f.Zip)
	assert.Equal(t, domain.GenderFemale, f.Gender)
	assert.Equal(t, "1990-01-01", f.DOB)
	assert.Equal(t, "36", f.Age)
	assert.Equal(t, "DL", f.IDType)
	assert.Equal(t, "S1234567", f.IDNumber)
}
