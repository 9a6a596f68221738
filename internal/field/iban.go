package field

import (
	"strings"

	"open-producten/internal/domain"
)

// ibanLengths is the IBAN registry length per country code.
var ibanLengths = map[string]int{
	"AD": 24, "AE": 23, "AL": 28, "AT": 20, "AZ": 28, "BA": 20, "BE": 16, "BG": 22,
	"BH": 22, "BR": 29, "BY": 28, "CH": 21, "CR": 22, "CY": 28, "CZ": 24, "DE": 22,
	"DK": 18, "DO": 28, "EE": 20, "EG": 29, "ES": 24, "FI": 18, "FO": 18, "FR": 27,
	"GB": 22, "GE": 22, "GI": 23, "GL": 18, "GR": 27, "GT": 28, "HR": 21, "HU": 28,
	"IE": 22, "IL": 23, "IQ": 23, "IS": 26, "IT": 27, "JO": 30, "KW": 30, "KZ": 20,
	"LB": 28, "LC": 32, "LI": 21, "LT": 20, "LU": 20, "LV": 21, "MC": 27, "MD": 24,
	"ME": 22, "MK": 19, "MR": 27, "MT": 31, "MU": 30, "NL": 18, "NO": 15, "PK": 24,
	"PL": 28, "PS": 29, "PT": 25, "QA": 29, "RO": 24, "RS": 22, "SA": 24, "SC": 31,
	"SE": 24, "SI": 19, "SK": 24, "SM": 27, "ST": 25, "SV": 28, "TL": 23, "TN": 24,
	"TR": 26, "UA": 29, "VA": 22, "VG": 24, "XK": 20,
}

type ibanRule struct{}

func (ibanRule) Clean(value string, _ []string) error {
	return ValidateIBAN(value)
}

func (ibanRule) Parse(value string) (any, error) {
	return normalizeIBAN(value), nil
}

func normalizeIBAN(value string) string {
	value = strings.ToUpper(value)
	return strings.NewReplacer(" ", "", "-", "").Replace(value)
}

// ValidateIBAN checks the country length and the mod-97 check digits.
func ValidateIBAN(value string) error {
	iban := normalizeIBAN(value)
	if len(iban) < 5 {
		return domain.ErrInvalidIBAN.With("invalid iban")
	}
	want, ok := ibanLengths[iban[:2]]
	if !ok {
		return domain.ErrInvalidIBAN.Withf("%s IBANs are not allowed", iban[:2])
	}
	if len(iban) != want {
		return domain.ErrInvalidIBAN.Withf("%s IBANs must contain %d characters", iban[:2], want)
	}

	rearranged := iban[4:] + iban[:4]
	rem := 0
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		switch {
		case c >= '0' && c <= '9':
			rem = (rem*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			rem = (rem*100 + int(c-'A') + 10) % 97
		default:
			return domain.ErrInvalidIBAN.With("invalid iban")
		}
	}
	if rem != 1 {
		return domain.ErrInvalidIBAN.With("Not a valid IBAN.")
	}
	return nil
}
