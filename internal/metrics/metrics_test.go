package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"open-producten/internal/domain"
)

func TestObserveError(t *testing.T) {
	m := New(prometheus.NewRegistry())

	batch := &domain.BatchError{Field: "data"}
	batch.Add(0, domain.ErrInvalidBSN.With("Invalid bsn number"))
	batch.Add(1, domain.ErrDuplicateID)
	batch.Add(2, domain.ErrInvalidBSN)

	m.ObserveError("product.create", batch)
	m.ObserveError("product.create", errors.New("db down"))
	m.ObserveError("category.move", domain.ErrMoveToDescendant)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("product.create", "checksum")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("product.create", "identity_reconciliation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("category.move", "tree_structural")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveError("x", domain.ErrInvalidBSN)
	m.Mutation("x")
}
