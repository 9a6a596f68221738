package field

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"open-producten/internal/domain"
)

var bsnPattern = regexp.MustCompile(`^[0-9]{9}$`)

type bsnRule struct{}

func (bsnRule) Clean(value string, _ []string) error {
	return ValidateBSN(value)
}

func (bsnRule) Parse(value string) (any, error) {
	return value, nil
}

// ValidateBSN checks that bsn is nine digits and passes the 11-check.
func ValidateBSN(bsn string) error {
	if !bsnPattern.MatchString(bsn) {
		return domain.ErrInvalidBSN.With("A bsn number consists of 9 digits.")
	}
	total := 0
	for i := 0; i < 8; i++ {
		total += int(bsn[i]-'0') * (9 - i)
	}
	total -= int(bsn[8] - '0')
	if total == 0 || total%11 != 0 {
		return domain.ErrInvalidBSN.With("Invalid bsn number")
	}
	return nil
}

type checkboxRule struct{}

func (checkboxRule) Clean(value string, _ []string) error {
	if value != "true" && value != "false" {
		return domain.ErrInvalidCheckbox.With("Checkbox must be true or false")
	}
	return nil
}

func (checkboxRule) Parse(value string) (any, error) {
	return strings.EqualFold(value, "true"), nil
}

// patternRule accepts values matching a regular expression.
type patternRule struct {
	re    *regexp.Regexp
	name  string
	parse func(string) (any, error)
}

func newPatternRule(expr, name string, parse func(string) (any, error)) patternRule {
	return patternRule{re: regexp.MustCompile(expr), name: name, parse: parse}
}

// Cosign fields hold the e-mail address of the co-signer.
var emailPattern = newPatternRule(`^.+@.+\..+$`, "email", nil)

func (r patternRule) Clean(value string, _ []string) error {
	if !r.re.MatchString(value) {
		return domain.ErrInvalidFormat.Withf("invalid %s", r.name)
	}
	return nil
}

func (r patternRule) Parse(value string) (any, error) {
	if r.parse == nil {
		return value, nil
	}
	return r.parse(value)
}

func parseNumber(value string) (any, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, domain.ErrInvalidFormat.With("invalid number")
	}
	return f, nil
}

func splitComma(value string) (any, error) {
	return strings.Split(value, ","), nil
}

// layoutRule accepts values parseable with one of the time layouts.
type layoutRule struct {
	layouts []string
	display string
	name    string
	parse   func(time.Time) any
}

var (
	dateRule = layoutRule{
		layouts: []string{"2006-01-02"},
		display: "YYYY-MM-DD",
		name:    "date",
		parse:   func(t time.Time) any { return t },
	}
	datetimeRule = layoutRule{
		layouts: []string{"2006-01-02T15:04:05Z07:00", "2006-01-02T15:04:05-0700"},
		display: "YYYY-MM-DDTHH:MM:SS±HH:MM",
		name:    "datetime",
		parse:   func(t time.Time) any { return t },
	}
	timeRule = layoutRule{
		layouts: []string{"15:04:05"},
		display: "HH:MM:SS",
		name:    "time",
		parse: func(t time.Time) any {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
		},
	}
)

func (r layoutRule) Clean(value string, _ []string) error {
	_, err := r.Parse(value)
	return err
}

func (r layoutRule) Parse(value string) (any, error) {
	// time.Parse accepts fractional seconds the layouts do not name.
	if strings.ContainsAny(value, ".,") {
		return nil, r.invalid()
	}
	for _, layout := range r.layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return r.parse(t), nil
		}
	}
	return nil, r.invalid()
}

func (r layoutRule) invalid() error {
	return domain.ErrInvalidFormat.Withf("%s should use %s format", r.name, r.display)
}

// TimeOfDay is the parsed form of a time field.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

func (t TimeOfDay) String() string {
	return time.Date(0, 1, 1, t.Hour, t.Minute, t.Second, 0, time.UTC).Format("15:04:05")
}

// passthroughRule accepts any value.
type passthroughRule struct{}

func (passthroughRule) Clean(string, []string) error { return nil }

func (passthroughRule) Parse(value string) (any, error) { return value, nil }
