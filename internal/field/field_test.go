package field

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-producten/internal/domain"
)

func TestRegistryCoversEveryFieldType(t *testing.T) {
	for _, ft := range domain.FieldTypes {
		_, err := RuleFor(ft)
		assert.NoError(t, err, "no rule for %s", ft)
	}
	assert.Len(t, registry, len(domain.FieldTypes))
}

func TestValidate(t *testing.T) {
	choices := []string{"a", "b"}

	tests := []struct {
		fieldType domain.FieldType
		valid     []string
		invalid   []string
	}{
		{domain.FieldTypeBSN, []string{"111222333"}, []string{"1234", "abc", "123456789", "192837465", "000000000"}},
		{domain.FieldTypeCheckbox, []string{"true", "false"}, []string{"1234", "True", "1", ""}},
		{domain.FieldTypeCosign, []string{"abcde@gmail.com"}, []string{"abcde", "abcde@", "abcde@gmail."}},
		{domain.FieldTypeCurrency, []string{"123124", "123124,12", "5,"}, []string{"abcde", "123a", "1,234"}},
		{domain.FieldTypeDate, []string{"2024-01-01"}, []string{"abc", "20240101", "2024-13-01"}},
		{domain.FieldTypeDatetime, []string{"2024-01-01T13:00:00+02:00", "2024-01-01T13:00:00+0200", "2024-01-01T13:00:00Z"}, []string{"abc", "20241001", "2023-13-01", "2024-07-16T12:33:01.123+02:00", "2024-07-16T12:33:01,5Z"}},
		{domain.FieldTypeEmail, []string{"abcde@gmail.com"}, []string{"abcde", "xyz@", "abcde@gmail."}},
		{domain.FieldTypeIBAN, []string{"NL20INGB0001234567", "nl20 ingb 0001 2345 67"}, []string{"0001234567", "NL10INGB0001234567", "XX20INGB0001234567", "NL20INGB000123456"}},
		{domain.FieldTypeLicensePlate, []string{"123-AA-1", "AB-12-34", "xx-999-x"}, []string{"abcde", "abc123ad", "AB1234"}},
		{domain.FieldTypeMap, []string{"42,12", "42.1294323,12.9283498"}, []string{"abcde", "42, 21", "42"}},
		{domain.FieldTypeNumber, []string{"42.12", "42.1294323", "7"}, []string{"abcde", "-1", "4.2.1"}},
		{domain.FieldTypePhoneNumber, []string{"0612165228", "+31 6 12 16 52 28"}, []string{"abcde", "+"}},
		{domain.FieldTypePostcode, []string{"3441ER", "3441 ER", "1234ab"}, []string{"AB 3123", "0334 AA", "3441  ER"}},
		{domain.FieldTypeRadio, []string{"a", "b"}, []string{"d", "a,b"}},
		{domain.FieldTypeSelect, []string{"a", "a,b", "b,a"}, []string{"", "d,", "d", "a,d"}},
		{domain.FieldTypeSelectBoxes, []string{`{"a": true, "b": true}`, `{"a": false, "b": true}`}, []string{")(", `{"a": true}`, `{"a": true, "d": true}`, `{"a": 1, "b": true}`, `null`, `[]`}},
		{domain.FieldTypeSignature, []string{"data:image/png;base64,A812EEAa"}, []string{"signature"}},
		{domain.FieldTypeTime, []string{"12:00:00"}, []string{"abc", "120302", "25:00:00", "12:33:01.5", "12:33:01,5"}},
		{domain.FieldTypeTextfield, []string{"", "anything at all"}, nil},
		{domain.FieldTypePassword, []string{"hunter2"}, nil},
		{domain.FieldTypeFile, []string{"report.pdf"}, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.fieldType), func(t *testing.T) {
			for _, v := range tt.valid {
				assert.NoError(t, Validate(tt.fieldType, v, choices), "%q should be valid", v)
			}
			for _, v := range tt.invalid {
				err := Validate(tt.fieldType, v, choices)
				if assert.Error(t, err, "%q should be invalid", v) {
					var de *domain.Error
					assert.True(t, errors.As(err, &de), "expected *domain.Error, got %T", err)
				}
			}
		})
	}
}

func TestValidateBSNChecksum(t *testing.T) {
	// exhaustive over a slice of the 9 digit space against the reference formula
	for n := 111222300; n < 111222400; n++ {
		bsn := fmt.Sprintf("%09d", n)
		total := 0
		for i := 0; i < 8; i++ {
			total += int(bsn[i]-'0') * (9 - i)
		}
		total -= int(bsn[8] - '0')
		want := total != 0 && total%11 == 0

		err := ValidateBSN(bsn)
		assert.Equal(t, want, err == nil, bsn)
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInvalidBSN)
		}
	}
}

func TestValidateErrorKinds(t *testing.T) {
	var de *domain.Error

	require.ErrorAs(t, Validate(domain.FieldTypeBSN, "192837465", nil), &de)
	assert.Equal(t, domain.KindChecksum, de.Kind)

	require.ErrorAs(t, Validate(domain.FieldTypeCheckbox, "True", nil), &de)
	assert.ErrorIs(t, de, domain.ErrInvalidCheckbox)

	require.ErrorAs(t, Validate(domain.FieldTypeRadio, "x", []string{"a"}), &de)
	assert.Equal(t, domain.KindMembership, de.Kind)

	require.ErrorAs(t, Validate(domain.FieldTypeIBAN, "NL10INGB0001234567", nil), &de)
	assert.ErrorIs(t, de, domain.ErrInvalidIBAN)

	require.ErrorAs(t, Validate(domain.FieldTypeDate, "2024-13-01", nil), &de)
	assert.Equal(t, "date should use YYYY-MM-DD format", de.Message)

	assert.ErrorIs(t, Validate(domain.FieldType("slider"), "1", nil), domain.ErrInvalidType)
}

func TestSelectBoxesReportsOffendingKeys(t *testing.T) {
	choices := []string{"a", "b", "c"}

	err := Validate(domain.FieldTypeSelectBoxes, `{"a": true, "d": true, "e": false, "b": true, "c": true}`, choices)
	require.Error(t, err)
	assert.Equal(t, "select box keys are not part of the field choices: d, e", err.Error())

	err = Validate(domain.FieldTypeSelectBoxes, `{"a": true}`, choices)
	require.Error(t, err)
	assert.Equal(t, "select box is missing field choices: b, c", err.Error())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		fieldType domain.FieldType
		value     string
		want      any
	}{
		{domain.FieldTypeNumber, "5", 5.0},
		{domain.FieldTypeNumber, "42.5", 42.5},
		{domain.FieldTypeCheckbox, "true", true},
		{domain.FieldTypeCheckbox, "false", false},
		{domain.FieldTypeDate, "2024-07-16", time.Date(2024, 7, 16, 0, 0, 0, 0, time.UTC)},
		{domain.FieldTypeTime, "12:33:01", TimeOfDay{Hour: 12, Minute: 33, Second: 1}},
		{domain.FieldTypeMap, "52.13309377014838,5.339086446962994", []string{"52.13309377014838", "5.339086446962994"}},
		{domain.FieldTypeSelect, "abc,def", []string{"abc", "def"}},
		{domain.FieldTypeTextfield, "plain", "plain"},
		{domain.FieldTypeSelectBoxes, `{"a": true, "b": false}`, map[string]bool{"a": true, "b": false}},
	}
	for _, tt := range tests {
		t.Run(string(tt.fieldType)+"/"+tt.value, func(t *testing.T) {
			got, err := Format(tt.fieldType, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDatetimeKeepsOffset(t *testing.T) {
	got, err := Format(domain.FieldTypeDatetime, "2024-07-11T12:04:03+02:00")
	require.NoError(t, err)

	ts, ok := got.(time.Time)
	require.True(t, ok)
	amsterdamSummer := time.FixedZone("", 2*60*60)
	assert.True(t, ts.Equal(time.Date(2024, 7, 11, 12, 4, 3, 0, amsterdamSummer)))
	_, offset := ts.Zone()
	assert.Equal(t, 7200, offset)
}

func TestFormatRejectsMalformed(t *testing.T) {
	_, err := Format(domain.FieldTypeTime, "noon")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)

	_, err = Format(domain.FieldTypeNumber, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)

	// no silent truncation of fractional seconds
	got, err := Format(domain.FieldTypeTime, "12:33:01.5")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	assert.Nil(t, got)
}

func TestValidateDefinition(t *testing.T) {
	for _, ft := range []domain.FieldType{domain.FieldTypeRadio, domain.FieldTypeSelect, domain.FieldTypeSelectBoxes} {
		assert.ErrorIs(t, ValidateDefinition(ft, nil), domain.ErrChoicesRequired, ft)
		assert.NoError(t, ValidateDefinition(ft, []string{"a"}), ft)
	}

	err := ValidateDefinition(domain.FieldTypeTextfield, []string{"a", "b"})
	assert.ErrorIs(t, err, domain.ErrChoicesNotAllowed)
	assert.Equal(t, "textfield cannot have choices", err.Error())

	assert.NoError(t, ValidateDefinition(domain.FieldTypeTextfield, nil))
	assert.ErrorIs(t, ValidateDefinition("slider", nil), domain.ErrInvalidType)
}

func TestParseType(t *testing.T) {
	ft, err := ParseType("phoneNumber")
	require.NoError(t, err)
	assert.Equal(t, domain.FieldTypePhoneNumber, ft)

	_, err = ParseType("phonenumber")
	assert.ErrorIs(t, err, domain.ErrInvalidType)
}
