package tag

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"open-producten/internal/domain"
	"open-producten/internal/metrics"
	tagrepo "open-producten/internal/repository/tag"
)

const maxNameLen = 100

type Service struct {
	repo    tagrepo.Repository
	metrics *metrics.Metrics
}

func New(repo tagrepo.Repository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, metrics: m}
}

func (s *Service) ListTypes(ctx context.Context) ([]domain.TagType, error) {
	return s.repo.ListTypes(ctx)
}

func (s *Service) GetType(ctx context.Context, id string) (*domain.TagType, error) {
	return s.repo.GetType(ctx, id)
}

// CreateType stores a tag type. Names are unique; a taken name surfaces as
// domain.ErrConflict from the repository.
func (s *Service) CreateType(ctx context.Context, t domain.TagType) (*domain.TagType, error) {
	if err := checkName(t.Name); err != nil {
		return nil, s.fail("create_type", err)
	}
	return s.repo.CreateType(ctx, t)
}

func (s *Service) UpdateType(ctx context.Context, t domain.TagType) (*domain.TagType, error) {
	if err := checkName(t.Name); err != nil {
		return nil, s.fail("update_type", err)
	}
	return s.repo.UpdateType(ctx, t)
}

func (s *Service) DeleteType(ctx context.Context, id string) error {
	return s.repo.DeleteType(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Tag, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Tag, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, t domain.Tag) (*domain.Tag, error) {
	if err := s.validate(ctx, t); err != nil {
		return nil, s.fail("create", err)
	}
	return s.repo.Create(ctx, t)
}

func (s *Service) Update(ctx context.Context, t domain.Tag) (*domain.Tag, error) {
	if err := s.validate(ctx, t); err != nil {
		return nil, s.fail("update", err)
	}
	return s.repo.Update(ctx, t)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(ctx context.Context, t domain.Tag) error {
	if err := checkName(t.Name); err != nil {
		return err
	}
	if t.TypeID == nil {
		return nil
	}
	if _, err := s.repo.GetType(ctx, *t.TypeID); err != nil {
		return fmt.Errorf("tag type %s: %w", *t.TypeID, err)
	}
	return nil
}

func (s *Service) fail(op string, err error) error {
	s.metrics.ObserveError("tag."+op, err)
	return err
}

func checkName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return domain.OnField("name", domain.Invalid("This field may not be blank."))
	case utf8.RuneCountInString(name) > maxNameLen:
		return domain.OnField("name", domain.Invalid("Ensure this field has no more than %d characters.", maxNameLen))
	}
	return nil
}
