// Package field validates and parses the raw string values stored for dynamic
// product type fields.
//
// Every field type has exactly one Rule. The registry is filled once at
// package init and is read-only afterwards.
package field

import (
	"open-producten/internal/domain"
)

// Rule validates and parses values of a single field type. Choices is only
// consulted by the choice types (radio, select, selectBoxes).
type Rule interface {
	Clean(value string, choices []string) error
	Parse(value string) (any, error)
}

var registry = map[domain.FieldType]Rule{
	domain.FieldTypeBSN:          bsnRule{},
	domain.FieldTypeCheckbox:     checkboxRule{},
	domain.FieldTypeCosign:       emailPattern,
	domain.FieldTypeCurrency:     newPatternRule(`^\d+,?\d{0,2}$`, "currency", nil),
	domain.FieldTypeDate:         dateRule,
	domain.FieldTypeDatetime:     datetimeRule,
	domain.FieldTypeEmail:        emailPattern,
	domain.FieldTypeFile:         passthroughRule{},
	domain.FieldTypeIBAN:         ibanRule{},
	domain.FieldTypeLicensePlate: licensePlateRule{},
	domain.FieldTypeMap:          newPatternRule(`^\d+\.?\d*,\d+\.?\d*$`, "map", splitComma),
	domain.FieldTypeNumber:       newPatternRule(`^\d+\.?\d*$`, "number", parseNumber),
	domain.FieldTypePassword:     passthroughRule{},
	domain.FieldTypePhoneNumber:  newPatternRule(`^[+0-9][- 0-9]+$`, "phoneNumber", nil),
	domain.FieldTypePostcode:     newPatternRule(`^[1-9][0-9]{3} ?[a-zA-Z]{2}$`, "postcode", nil),
	domain.FieldTypeRadio:        radioRule{},
	domain.FieldTypeSelect:       selectRule{},
	domain.FieldTypeSelectBoxes:  selectBoxesRule{},
	domain.FieldTypeSignature:    newPatternRule(`^data:image/png;base64,.*$`, "signature", nil),
	domain.FieldTypeTextfield:    passthroughRule{},
	domain.FieldTypeTime:         timeRule,
}

// RuleFor returns the rule registered for t.
func RuleFor(t domain.FieldType) (Rule, error) {
	r, ok := registry[t]
	if !ok {
		return nil, domain.ErrInvalidType.Withf("unknown field type %q", string(t))
	}
	return r, nil
}

// Validate checks a raw value against the rule of its field type. The
// returned error is a *domain.Error describing the failed rule.
func Validate(t domain.FieldType, value string, choices []string) error {
	r, err := RuleFor(t)
	if err != nil {
		return err
	}
	return r.Clean(value, choices)
}

// Format converts a raw value into its typed representation: float64 for
// numbers, bool for checkboxes, time.Time for dates and datetimes, TimeOfDay
// for times and []string for maps and selects. Types without a parsed form
// return the raw string.
func Format(t domain.FieldType, value string) (any, error) {
	r, err := RuleFor(t)
	if err != nil {
		return nil, err
	}
	return r.Parse(value)
}

// ValidateDefinition enforces that choices are given for choice types and
// only for choice types.
func ValidateDefinition(t domain.FieldType, choices []string) error {
	if _, err := RuleFor(t); err != nil {
		return err
	}
	if t.IsChoice() && len(choices) == 0 {
		return domain.ErrChoicesRequired.Withf("Choices are required for %s", t)
	}
	if !t.IsChoice() && len(choices) > 0 {
		return domain.ErrChoicesNotAllowed.Withf("%s cannot have choices", t)
	}
	return nil
}

// ParseType resolves the wire name of a field type.
func ParseType(s string) (domain.FieldType, error) {
	t := domain.FieldType(s)
	if _, err := RuleFor(t); err != nil {
		return "", err
	}
	return t, nil
}
