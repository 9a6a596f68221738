package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-producten/internal/domain"
)

var dataNaming = Naming{Noun: "Data", Parent: "product"}

func TestDiffClassifiesEntries(t *testing.T) {
	errs := &domain.BatchError{Field: "data"}
	entries := []Entry[string]{
		{ID: "a", Value: "1"},
		{Value: "new"},
		{ID: "c", Value: "3"},
	}

	plan := Diff(entries, []string{"a", "b", "c"}, nil, dataNaming, errs)

	require.True(t, errs.Empty())
	assert.Equal(t, []Update[string]{{Index: 0, ID: "a", Value: "1"}, {Index: 2, ID: "c", Value: "3"}}, plan.Updates)
	assert.Equal(t, []Create[string]{{Index: 1, Value: "new"}}, plan.Creates)
	assert.Equal(t, []string{"b"}, plan.Deletes)
}

func TestDiffDuplicateAtSecondOccurrence(t *testing.T) {
	errs := &domain.BatchError{Field: "data"}
	entries := []Entry[string]{{ID: "a"}, {ID: "b"}, {ID: "a"}}

	Diff(entries, []string{"a", "b"}, nil, dataNaming, errs)

	require.Len(t, errs.Items, 1)
	assert.Equal(t, 2, errs.Items[0].Index)
	assert.ErrorIs(t, errs.Items[0].Err, domain.ErrDuplicateID)
	assert.Equal(t, "Duplicate data id: a at index 2", errs.Items[0].Err.Error())
}

func TestDiffForeignAndUnknownIDs(t *testing.T) {
	errs := &domain.BatchError{Field: "options"}
	exists := func(id string) bool { return id == "foreign" }
	entries := []Entry[int]{{ID: "foreign"}, {ID: "ghost"}, {ID: "mine"}}

	plan := Diff(entries, []string{"mine"}, exists, Naming{Noun: "Price option", Parent: "price"}, errs)

	require.Len(t, errs.Items, 2)
	assert.ErrorIs(t, errs.Items[0].Err, domain.ErrNotPartOf)
	assert.Equal(t, "Price option id foreign at index 0 is not part of price object", errs.Items[0].Err.Error())
	assert.ErrorIs(t, errs.Items[1].Err, domain.ErrDoesNotExist)
	assert.Equal(t, "Price option id ghost at index 1 does not exist", errs.Items[1].Err.Error())
	assert.Len(t, plan.Updates, 1)
	assert.Empty(t, plan.Deletes)
	assert.ErrorIs(t, errs.ErrOrNil(), domain.ErrDoesNotExist)
}

func TestDiffEmptySubmissionDeletesEverything(t *testing.T) {
	errs := &domain.BatchError{}
	plan := Diff[string](nil, []string{"x", "y"}, nil, dataNaming, errs)
	assert.Equal(t, []string{"x", "y"}, plan.Deletes)
	assert.NoError(t, errs.ErrOrNil())
}
