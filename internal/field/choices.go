package field

import (
	"slices"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"open-producten/internal/domain"
)

func choiceExists(value string, choices []string) error {
	if !slices.Contains(choices, value) {
		return domain.ErrInvalidChoice.With("value does not exist in the field choices")
	}
	return nil
}

type radioRule struct{}

func (radioRule) Clean(value string, choices []string) error {
	return choiceExists(value, choices)
}

func (radioRule) Parse(value string) (any, error) {
	return value, nil
}

// selectRule holds a comma joined list of choices.
type selectRule struct{}

func (selectRule) Clean(value string, choices []string) error {
	for _, token := range strings.Split(value, ",") {
		if err := choiceExists(token, choices); err != nil {
			return err
		}
	}
	return nil
}

func (selectRule) Parse(value string) (any, error) {
	return splitComma(value)
}

// selectBoxesRule holds a JSON object mapping every choice to a boolean.
type selectBoxesRule struct{}

func (selectBoxesRule) Clean(value string, choices []string) error {
	_, err := parseSelectBoxes(value, choices)
	return err
}

func (selectBoxesRule) Parse(value string) (any, error) {
	return parseSelectBoxes(value, nil)
}

// parseSelectBoxes decodes the object and, when choices is non-nil, checks
// the key set against it.
func parseSelectBoxes(value string, choices []string) (map[string]bool, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(value), &raw); err != nil || raw == nil {
		return nil, domain.ErrInvalidFormat.With("invalid json")
	}

	out := make(map[string]bool, len(raw))
	for k, v := range raw {
		b, ok := v.(bool)
		if !ok {
			return nil, domain.ErrInvalidFormat.With("select box values should be boolean")
		}
		out[k] = b
	}
	if choices == nil {
		return out, nil
	}

	var unknown, missing []string
	for k := range out {
		if !slices.Contains(choices, k) {
			unknown = append(unknown, k)
		}
	}
	for _, c := range choices {
		if _, ok := out[c]; !ok {
			missing = append(missing, c)
		}
	}
	sort.Strings(unknown)
	if len(unknown) > 0 {
		return nil, domain.ErrInvalidChoice.Withf("select box keys are not part of the field choices: %s", strings.Join(unknown, ", "))
	}
	if len(missing) > 0 {
		return nil, domain.ErrInvalidChoice.Withf("select box is missing field choices: %s", strings.Join(missing, ", "))
	}
	return out, nil
}
