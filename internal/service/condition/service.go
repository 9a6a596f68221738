package condition

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"open-producten/internal/domain"
	"open-producten/internal/metrics"
	conditionrepo "open-producten/internal/repository/condition"
)

const maxNameLen = 100

type Service struct {
	repo    conditionrepo.Repository
	metrics *metrics.Metrics
}

func New(repo conditionrepo.Repository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, metrics: m}
}

func (s *Service) List(ctx context.Context) ([]domain.Condition, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Condition, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, c domain.Condition) (*domain.Condition, error) {
	if err := validate(c); err != nil {
		s.metrics.ObserveError("condition.create", err)
		return nil, err
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, c domain.Condition) (*domain.Condition, error) {
	if err := validate(c); err != nil {
		s.metrics.ObserveError("condition.update", err)
		return nil, err
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// validate requires every text attribute except Rule.
func validate(c domain.Condition) error {
	var errs []error
	required := []struct{ field, value string }{
		{"name", c.Name},
		{"question", c.Question},
		{"positiveText", c.PositiveText},
		{"negativeText", c.NegativeText},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, domain.OnField(r.field, domain.Invalid("This field may not be blank.")))
		}
	}
	if utf8.RuneCountInString(c.Name) > maxNameLen {
		errs = append(errs, domain.OnField("name", domain.Invalid("Ensure this field has no more than %d characters.", maxNameLen)))
	}
	return errors.Join(errs...)
}
