// Package reconcile diffs a submitted child collection against the rows a
// parent already owns. The submitted list is the full replacement set: rows
// it does not mention are scheduled for deletion.
package reconcile

import (
	"open-producten/internal/domain"
)

// Entry is one submitted child. An empty ID asks for a new row.
type Entry[T any] struct {
	ID    string
	Value T
}

// Update pairs a submitted entry with its position in the request.
type Update[T any] struct {
	Index int
	ID    string
	Value T
}

// Create is a submitted entry without id.
type Create[T any] struct {
	Index int
	Value T
}

// Plan is the outcome of a reconciliation.
type Plan[T any] struct {
	Creates []Create[T]
	Updates []Update[T]
	Deletes []string
}

// Naming configures the messages of identity errors, for example
// Noun "Data", Parent "product".
type Naming struct {
	Noun   string
	Parent string
}

// Diff classifies entries against the ids the parent owns. exists reports
// whether an id is known anywhere, so foreign ids can be told apart from
// unknown ones. Identity errors are appended to errs, one per offending
// index, and no entry is dropped silently.
func Diff[T any](entries []Entry[T], owned []string, exists func(id string) bool, naming Naming, errs *domain.BatchError) Plan[T] {
	current := make(map[string]struct{}, len(owned))
	for _, id := range owned {
		current[id] = struct{}{}
	}

	var plan Plan[T]
	seen := make(map[string]struct{}, len(entries))
	for idx, e := range entries {
		if e.ID == "" {
			plan.Creates = append(plan.Creates, Create[T]{Index: idx, Value: e.Value})
			continue
		}
		if _, dup := seen[e.ID]; dup {
			errs.Add(idx, domain.ErrDuplicateID.Withf("Duplicate %s id: %s at index %d", lower(naming.Noun), e.ID, idx))
			continue
		}
		seen[e.ID] = struct{}{}

		if _, ok := current[e.ID]; ok {
			plan.Updates = append(plan.Updates, Update[T]{Index: idx, ID: e.ID, Value: e.Value})
			continue
		}
		if exists != nil && exists(e.ID) {
			errs.Add(idx, domain.ErrNotPartOf.Withf("%s id %s at index %d is not part of %s object", naming.Noun, e.ID, idx, naming.Parent))
		} else {
			errs.Add(idx, domain.ErrDoesNotExist.Withf("%s id %s at index %d does not exist", naming.Noun, e.ID, idx))
		}
	}

	for _, id := range owned {
		if _, ok := seen[id]; !ok {
			plan.Deletes = append(plan.Deletes, id)
		}
	}
	return plan
}

func lower(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
