package price

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"open-producten/internal/domain"
	"open-producten/internal/metrics"
	"open-producten/internal/reconcile"
	pricerepo "open-producten/internal/repository/price"
)

const maxDescriptionLen = 100

var optionNaming = reconcile.Naming{Noun: "Price option", Parent: "price"}

// ProductTypes checks that a product type exists.
type ProductTypes interface {
	Get(ctx context.Context, id string) (*domain.ProductType, error)
}

// OptionInput is one submitted option; ID is empty for new options.
type OptionInput struct {
	ID          string
	AmountCents int64
	Description string
}

// UpdateInput is a partial update. A non-nil Options is the complete new
// option set.
type UpdateInput struct {
	StartDate *time.Time
	Options   []OptionInput
}

type Service struct {
	repo    pricerepo.Repository
	types   ProductTypes
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(repo pricerepo.Repository, types ProductTypes, m *metrics.Metrics) *Service {
	return &Service{repo: repo, types: types, metrics: m, now: time.Now}
}

func (s *Service) List(ctx context.Context, productTypeID string) ([]domain.Price, error) {
	if _, err := s.types.Get(ctx, productTypeID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, productTypeID)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Price, error) {
	return s.repo.Get(ctx, id)
}

// Current returns the price in effect today.
func (s *Service) Current(ctx context.Context, productTypeID string) (*domain.Price, error) {
	return s.repo.Current(ctx, productTypeID, s.today())
}

func (s *Service) Create(ctx context.Context, productTypeID string, startDate time.Time, options []OptionInput) (*domain.Price, error) {
	if _, err := s.types.Get(ctx, productTypeID); err != nil {
		return nil, err
	}

	var errs []error
	if err := s.checkStartDate(ctx, productTypeID, "", startDate); err != nil {
		errs = append(errs, err)
	}
	optErrs := &domain.BatchError{Field: "options"}
	if len(options) == 0 {
		optErrs.Add(-1, domain.Invalid("At least one option is required"))
	}
	p := domain.Price{ProductTypeID: productTypeID, StartDate: startDate}
	for i, o := range options {
		if err := checkOption(o); err != nil {
			optErrs.Add(i, err)
			continue
		}
		p.Options = append(p.Options, domain.PriceOption{AmountCents: o.AmountCents, Description: o.Description})
	}
	errs = append(errs, optErrs.ErrOrNil())
	if err := errors.Join(errs...); err != nil {
		return nil, s.fail("create", err)
	}
	return s.repo.Create(ctx, p)
}

// Update edits the start date and reconciles the options in one unit.
// Options left out of a submitted set are deleted.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Price, error) {
	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p := *cur
	if in.StartDate != nil && !in.StartDate.Equal(cur.StartDate) {
		if err := s.checkStartDate(ctx, cur.ProductTypeID, cur.ID, *in.StartDate); err != nil {
			return nil, s.fail("update", err)
		}
		p.StartDate = *in.StartDate
	}
	if in.Options == nil {
		return s.repo.Update(ctx, p, nil)
	}

	changes, err := s.reconcileOptions(ctx, cur, in.Options)
	if err != nil {
		return nil, s.fail("update", err)
	}
	return s.repo.Update(ctx, p, changes)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) reconcileOptions(ctx context.Context, cur *domain.Price, submitted []OptionInput) (*pricerepo.OptionChanges, error) {
	owned := make([]string, 0, len(cur.Options))
	for _, o := range cur.Options {
		owned = append(owned, o.ID)
	}
	entries := make([]reconcile.Entry[OptionInput], len(submitted))
	var ids []string
	for i, o := range submitted {
		entries[i] = reconcile.Entry[OptionInput]{ID: o.ID, Value: o}
		if o.ID != "" {
			ids = append(ids, o.ID)
		}
	}
	owners, err := s.repo.OptionOwners(ctx, ids)
	if err != nil {
		return nil, err
	}

	errs := &domain.BatchError{Field: "options"}
	if len(submitted) == 0 {
		errs.Add(-1, domain.Invalid("At least one option is required"))
	}
	plan := reconcile.Diff(entries, owned, func(id string) bool { _, ok := owners[id]; return ok }, optionNaming, errs)

	changes := &pricerepo.OptionChanges{Delete: plan.Deletes, Owned: owned}
	for _, u := range plan.Updates {
		if err := checkOption(u.Value); err != nil {
			errs.Add(u.Index, err)
			continue
		}
		changes.Update = append(changes.Update, domain.PriceOption{ID: u.ID, AmountCents: u.Value.AmountCents, Description: u.Value.Description})
	}
	for _, c := range plan.Creates {
		if err := checkOption(c.Value); err != nil {
			errs.Add(c.Index, err)
			continue
		}
		changes.Create = append(changes.Create, domain.PriceOption{AmountCents: c.Value.AmountCents, Description: c.Value.Description})
	}
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return changes, nil
}

func (s *Service) checkStartDate(ctx context.Context, productTypeID, selfID string, start time.Time) error {
	if civil(start).Before(s.today()) {
		return domain.OnField("startDate", domain.Invalid("Ensure this value is greater than or equal to %s.", s.today().Format(time.DateOnly)))
	}
	existing, err := s.repo.List(ctx, productTypeID)
	if err != nil {
		return err
	}
	for _, p := range existing {
		if p.ID != selfID && civil(p.StartDate).Equal(civil(start)) {
			return domain.OnField("startDate", fmt.Errorf("a price with this start date already exists: %w", domain.ErrConflict))
		}
	}
	return nil
}

func (s *Service) today() time.Time {
	return civil(s.now())
}

func (s *Service) fail(op string, err error) error {
	s.metrics.ObserveError("price."+op, err)
	return err
}

func checkOption(o OptionInput) error {
	switch {
	case o.AmountCents < 1:
		return domain.Invalid("Ensure this value is greater than or equal to 0.01.")
	case strings.TrimSpace(o.Description) == "":
		return domain.Invalid("This field may not be blank.")
	case utf8.RuneCountInString(o.Description) > maxDescriptionLen:
		return domain.Invalid("Ensure this field has no more than %d characters.", maxDescriptionLen)
	}
	return nil
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
