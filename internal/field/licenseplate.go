package field

import (
	"regexp"
	"strings"

	"open-producten/internal/domain"
)

// Dutch license plates follow one of the numbered side codes.
var licensePlateSideCodes = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z]{2}-[0-9]{2}-[0-9]{2}$`), // 1  XX-99-99
	regexp.MustCompile(`^[0-9]{2}-[0-9]{2}-[A-Z]{2}$`), // 2  99-99-XX
	regexp.MustCompile(`^[0-9]{2}-[A-Z]{2}-[0-9]{2}$`), // 3  99-XX-99
	regexp.MustCompile(`^[A-Z]{2}-[0-9]{2}-[A-Z]{2}$`), // 4  XX-99-XX
	regexp.MustCompile(`^[A-Z]{2}-[A-Z]{2}-[0-9]{2}$`), // 5  XX-XX-99
	regexp.MustCompile(`^[0-9]{2}-[A-Z]{2}-[A-Z]{2}$`), // 6  99-XX-XX
	regexp.MustCompile(`^[0-9]{2}-[A-Z]{3}-[0-9]$`),    // 7  99-XXX-9
	regexp.MustCompile(`^[0-9]-[A-Z]{3}-[0-9]{2}$`),    // 8  9-XXX-99
	regexp.MustCompile(`^[A-Z]{2}-[0-9]{3}-[A-Z]$`),    // 9  XX-999-X
	regexp.MustCompile(`^[A-Z]-[0-9]{3}-[A-Z]{2}$`),    // 10 X-999-XX
	regexp.MustCompile(`^[A-Z]{3}-[0-9]{2}-[A-Z]$`),    // 11 XXX-99-X
	regexp.MustCompile(`^[A-Z]-[0-9]{2}-[A-Z]{3}$`),    // 12 X-99-XXX
	regexp.MustCompile(`^[0-9]-[A-Z]{2}-[0-9]{3}$`),    // 13 9-XX-999
	regexp.MustCompile(`^[0-9]{3}-[A-Z]{2}-[0-9]$`),    // 14 999-XX-9
}

type licensePlateRule struct{}

func (licensePlateRule) Clean(value string, _ []string) error {
	plate := strings.ToUpper(value)
	for _, re := range licensePlateSideCodes {
		if re.MatchString(plate) {
			return nil
		}
	}
	return domain.ErrInvalidFormat.With("invalid licenseplate")
}

func (licensePlateRule) Parse(value string) (any, error) {
	return strings.ToUpper(value), nil
}
