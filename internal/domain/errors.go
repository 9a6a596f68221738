package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a write collided with existing state (unique keys, restricted deletes).
	ErrConflict = errors.New("conflict")
)

// Kind groups validation failures by the rule family that rejected the input.
type Kind string

const (
	KindFormat                 Kind = "format"
	KindChecksum               Kind = "checksum"
	KindMembership             Kind = "membership"
	KindDefinitionConsistency  Kind = "definition_consistency"
	KindCompleteness           Kind = "completeness"
	KindIdentityReconciliation Kind = "identity_reconciliation"
	KindTreeInvariant          Kind = "tree_invariant"
	KindTreeStructural         Kind = "tree_structural"
	KindInvalid                Kind = "invalid"
)

// Error is a caller-correctable validation failure. Two errors match under
// errors.Is when their codes are equal, so the exported sentinels below can be
// used to test for a rule regardless of the concrete message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// With returns a copy of the sentinel carrying a specific message.
func (e *Error) With(msg string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: msg}
}

// Withf is With with formatting.
func (e *Error) Withf(format string, args ...any) *Error {
	return e.With(fmt.Sprintf(format, args...))
}

var (
	ErrInvalidBSN      = &Error{Kind: KindChecksum, Code: "invalid_bsn", Message: "Invalid bsn number"}
	ErrInvalidKVK      = &Error{Kind: KindFormat, Code: "invalid_kvk", Message: "A kvk number consists of 8 digits."}
	ErrInvalidCheckbox = &Error{Kind: KindFormat, Code: "invalid_checkbox", Message: "Checkbox must be true or false"}
	ErrInvalidFormat   = &Error{Kind: KindFormat, Code: "invalid_format", Message: "invalid format"}
	ErrInvalidIBAN     = &Error{Kind: KindChecksum, Code: "invalid_iban", Message: "invalid iban"}
	ErrInvalidChoice   = &Error{Kind: KindMembership, Code: "invalid_choice", Message: "value does not exist in the field choices"}
	ErrInvalidType     = &Error{Kind: KindFormat, Code: "invalid_field_type", Message: "unknown field type"}

	ErrChoicesRequired   = &Error{Kind: KindDefinitionConsistency, Code: "choices_required", Message: "choices are required"}
	ErrChoicesNotAllowed = &Error{Kind: KindDefinitionConsistency, Code: "choices_not_allowed", Message: "choices are not allowed"}

	ErrMissingRequiredFields = &Error{Kind: KindCompleteness, Code: "missing_required_fields", Message: "Missing required fields"}
	ErrFieldNotPartOfType    = &Error{Kind: KindCompleteness, Code: "field_not_part_of_product_type", Message: "field is not part of product type"}
	ErrOwnerRequired         = &Error{Kind: KindCompleteness, Code: "owner_required", Message: "A product must be linked to a bsn or kvk number (or both)"}

	ErrDuplicateID  = &Error{Kind: KindIdentityReconciliation, Code: "duplicate_id", Message: "duplicate id"}
	ErrNotPartOf    = &Error{Kind: KindIdentityReconciliation, Code: "not_part_of_parent", Message: "id is not part of parent object"}
	ErrDoesNotExist = &Error{Kind: KindIdentityReconciliation, Code: "does_not_exist", Message: "id does not exist"}

	ErrParentMustBePublishedFirst              = &Error{Kind: KindTreeInvariant, Code: "parent_must_be_published_first", Message: "Parent nodes have to be published in order to publish a child."}
	ErrCannotUnpublishWithPublishedDescendants = &Error{Kind: KindTreeInvariant, Code: "cannot_unpublish_with_published_descendants", Message: "Parent nodes cannot be unpublished if they have published children."}
	ErrCannotNestPublishedUnderUnpublished     = &Error{Kind: KindTreeInvariant, Code: "cannot_nest_published_under_unpublished", Message: "Published nodes cannot be nested under unpublished ones."}
	ErrMoveToDescendant                        = &Error{Kind: KindTreeStructural, Code: "move_to_descendant", Message: "Cannot move node to a descendant."}
	ErrInvalidPosition                         = &Error{Kind: KindTreeStructural, Code: "invalid_position", Message: "invalid move position"}
	ErrPathOverflow                            = &Error{Kind: KindTreeStructural, Code: "path_overflow", Message: "no free path segment left under this parent"}

	// ErrInvalid is the catch-all for plain attribute checks (lengths, dates, urls).
	ErrInvalid = &Error{Kind: KindInvalid, Code: "invalid", Message: "invalid value"}
)

// Invalid returns an attribute validation error.
func Invalid(format string, args ...any) *Error {
	return ErrInvalid.Withf(format, args...)
}

// IndexedError is one failure of a batch. Index is -1 for failures that are
// not tied to a single entry, such as missing required fields.
type IndexedError struct {
	Index int
	Err   error
}

// BatchError collects every failure of a batch so the caller can report them
// together. Field names the request attribute the batch came from.
type BatchError struct {
	Field string
	Items []IndexedError
}

func (e *BatchError) Add(index int, err error) {
	e.Items = append(e.Items, IndexedError{Index: index, Err: err})
}

func (e *BatchError) Empty() bool {
	return len(e.Items) == 0
}

// ErrOrNil returns nil for an empty batch so callers can `return b.ErrOrNil()`.
func (e *BatchError) ErrOrNil() error {
	if e == nil || e.Empty() {
		return nil
	}
	return e
}

func (e *BatchError) Messages() []string {
	out := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		out = append(out, item.Err.Error())
	}
	return out
}

func (e *BatchError) Error() string {
	return e.Field + ": " + strings.Join(e.Messages(), "; ")
}

func (e *BatchError) Unwrap() []error {
	out := make([]error, 0, len(e.Items))
	for _, item := range e.Items {
		out = append(out, item.Err)
	}
	return out
}

// OnField reports a single failure under a request attribute.
func OnField(field string, err error) *BatchError {
	return &BatchError{Field: field, Items: []IndexedError{{Index: -1, Err: err}}}
}
