// Package metrics exposes the catalog's Prometheus collectors.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"open-producten/internal/domain"
)

// Metrics groups the collectors recorded by the services.
type Metrics struct {
	ValidationFailures *prometheus.CounterVec
	TreeMutations      *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg leaves them unregistered,
// which tests use to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "validation_failures_total",
			Help:      "Rejected inputs by operation and error kind.",
		}, []string{"operation", "kind"}),
		TreeMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalog",
			Name:      "category_tree_mutations_total",
			Help:      "Committed category tree mutations by operation.",
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(m.ValidationFailures, m.TreeMutations)
	}
	return m
}

// Nop returns unregistered collectors.
func Nop() *Metrics {
	return New(nil)
}

// ObserveError counts err under operation when it is a validation failure.
// Infrastructure errors are not counted.
func (m *Metrics) ObserveError(operation string, err error) {
	if m == nil || err == nil {
		return
	}
	for _, kind := range kinds(err) {
		m.ValidationFailures.WithLabelValues(operation, string(kind)).Inc()
	}
}

// Mutation counts a committed tree mutation.
func (m *Metrics) Mutation(operation string) {
	if m == nil {
		return
	}
	m.TreeMutations.WithLabelValues(operation).Inc()
}

func kinds(err error) []domain.Kind {
	var batch *domain.BatchError
	if errors.As(err, &batch) {
		var out []domain.Kind
		for _, item := range batch.Items {
			out = append(out, kinds(item.Err)...)
		}
		return out
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return []domain.Kind{de.Kind}
	}
	return nil
}
