// Package question manages the frequently asked questions of categories and
// product types.
package question

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"open-producten/internal/domain"
	"open-producten/internal/metrics"
	questionrepo "open-producten/internal/repository/question"
)

const maxQuestionLen = 250

// Owners resolves the category or product type a question hangs under.
type Owners interface {
	CategoryExists(ctx context.Context, id string) error
	ProductTypeExists(ctx context.Context, id string) error
}

type Service struct {
	repo    questionrepo.Repository
	owners  Owners
	metrics *metrics.Metrics
}

func New(repo questionrepo.Repository, owners Owners, m *metrics.Metrics) *Service {
	return &Service{repo: repo, owners: owners, metrics: m}
}

func (s *Service) List(ctx context.Context, owner questionrepo.Owner) ([]domain.Question, error) {
	if err := s.checkOwner(ctx, owner.CategoryID, owner.ProductTypeID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, owner)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Question, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, q domain.Question) (*domain.Question, error) {
	if err := s.validate(ctx, q); err != nil {
		return nil, s.fail("create", err)
	}
	return s.repo.Create(ctx, q)
}

// Update replaces question and answer. The owner of a question is fixed.
func (s *Service) Update(ctx context.Context, id string, question, answer *string) (*domain.Question, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if question != nil {
		q.Question = *question
	}
	if answer != nil {
		q.Answer = *answer
	}
	if err := checkText(*q); err != nil {
		return nil, s.fail("update", err)
	}
	return s.repo.Update(ctx, *q)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(ctx context.Context, q domain.Question) error {
	if err := checkText(q); err != nil {
		return err
	}
	return s.checkOwner(ctx, deref(q.CategoryID), deref(q.ProductTypeID))
}

func (s *Service) checkOwner(ctx context.Context, categoryID, productTypeID string) error {
	switch {
	case categoryID == "" && productTypeID == "":
		return domain.OnField("nonFieldErrors", domain.Invalid("Set either a category or a product type."))
	case categoryID != "" && productTypeID != "":
		return domain.OnField("nonFieldErrors", domain.Invalid("Set either a category or a product type, not both."))
	case categoryID != "":
		return s.owners.CategoryExists(ctx, categoryID)
	default:
		return s.owners.ProductTypeExists(ctx, productTypeID)
	}
}

func (s *Service) fail(op string, err error) error {
	s.metrics.ObserveError("question."+op, err)
	return err
}

func checkText(q domain.Question) error {
	var errs []error
	switch {
	case strings.TrimSpace(q.Question) == "":
		errs = append(errs, domain.OnField("question", domain.Invalid("This field may not be blank.")))
	case utf8.RuneCountInString(q.Question) > maxQuestionLen:
		errs = append(errs, domain.OnField("question", domain.Invalid("Ensure this field has no more than %d characters.", maxQuestionLen)))
	}
	if strings.TrimSpace(q.Answer) == "" {
		errs = append(errs, domain.OnField("answer", domain.Invalid("This field may not be blank.")))
	}
	return errors.Join(errs...)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type getter[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
}

// Lookup adapts the category and product type services to Owners.
type Lookup struct {
	Categories   getter[domain.Category]
	ProductTypes getter[domain.ProductType]
}

func (l Lookup) CategoryExists(ctx context.Context, id string) error {
	_, err := l.Categories.Get(ctx, id)
	return err
}

func (l Lookup) ProductTypeExists(ctx context.Context, id string) error {
	_, err := l.ProductTypes.Get(ctx, id)
	return err
}
