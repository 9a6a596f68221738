package product

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"open-producten/internal/domain"
	"open-producten/internal/field"
	"open-producten/internal/metrics"
	"open-producten/internal/reconcile"
	productrepo "open-producten/internal/repository/product"
)

var (
	kvkPattern = regexp.MustCompile(`^[0-9]{8}$`)
	dataNaming = reconcile.Naming{Noun: "Data", Parent: "product"}
)

// Catalog is the part of the product type store the service reads.
type Catalog interface {
	Get(ctx context.Context, id string) (*domain.ProductType, error)
	ListFields(ctx context.Context, productTypeID string) ([]domain.Field, error)
	GetField(ctx context.Context, id string) (*domain.Field, error)
}

// DataInput is one submitted data value. ID is empty for new values; FieldID
// is only read for new values.
type DataInput struct {
	ID      string
	FieldID string
	Value   string
}

type CreateInput struct {
	ProductTypeID string
	StartDate     time.Time
	EndDate       time.Time
	BSN           string
	KVK           string
	Published     bool
	Data          []DataInput
}

// UpdateInput is a partial update. A nil Data leaves the data untouched;
// otherwise Data is the complete new set and omitted values are deleted.
type UpdateInput struct {
	StartDate *time.Time
	EndDate   *time.Time
	BSN       *string
	KVK       *string
	Published *bool
	Data      []DataInput
}

type Service struct {
	repo    productrepo.Repository
	catalog Catalog
	metrics *metrics.Metrics
}

func New(repo productrepo.Repository, catalog Catalog, m *metrics.Metrics) *Service {
	return &Service{repo: repo, catalog: catalog, metrics: m}
}

func (s *Service) List(ctx context.Context, productTypeID string) ([]domain.Product, error) {
	return s.repo.List(ctx, productTypeID)
}

// Get returns the product with every data value formatted for its field.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fields, err := s.fields(ctx, p.ProductTypeID)
	if err != nil {
		return nil, err
	}
	for i, d := range p.Data {
		f, ok := fields.byID[d.FieldID]
		if !ok {
			continue
		}
		if v, err := field.Format(f.Type, d.Value); err == nil {
			p.Data[i].Formatted = v
		}
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	p := domain.Product{
		ProductTypeID: in.ProductTypeID,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		BSN:           in.BSN,
		KVK:           in.KVK,
		Published:     in.Published,
	}
	if err := Clean(p); err != nil {
		return nil, s.fail("create", err)
	}

	pt, err := s.catalog.Get(ctx, in.ProductTypeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, s.fail("create", domain.OnField("productTypeId", domain.ErrDoesNotExist.Withf("ProductType id %s does not exist", in.ProductTypeID)))
		}
		return nil, err
	}
	fields, err := s.fields(ctx, pt.ID)
	if err != nil {
		return nil, err
	}

	errs := &domain.BatchError{Field: "data"}
	covered := map[string]bool{}
	for idx, d := range in.Data {
		f, err := s.resolveField(ctx, fields, d.FieldID, pt, idx, errs)
		if err != nil {
			return nil, err
		}
		if f == nil {
			continue
		}
		covered[f.ID] = true
		if err := field.Validate(f.Type, d.Value, f.Choices); err != nil {
			errs.Add(idx, wrapData(idx, err))
			continue
		}
		p.Data = append(p.Data, domain.Data{FieldID: f.ID, Value: d.Value})
	}
	checkRequired(fields, covered, errs)
	if err := errs.ErrOrNil(); err != nil {
		return nil, s.fail("create", err)
	}

	out, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return out, nil
}

// Update edits the product and reconciles its data as one unit.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p := *cur
	if in.StartDate != nil {
		p.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = *in.EndDate
	}
	if in.BSN != nil {
		p.BSN = *in.BSN
	}
	if in.KVK != nil {
		p.KVK = *in.KVK
	}
	if in.Published != nil {
		p.Published = *in.Published
	}
	if err := Clean(p); err != nil {
		return nil, s.fail("update", err)
	}
	if in.Data == nil {
		out, err := s.repo.Update(ctx, p, nil)
		if err != nil {
			return nil, fmt.Errorf("update product: %w", err)
		}
		return out, nil
	}

	changes, err := s.reconcileData(ctx, cur, in.Data)
	if err != nil {
		return nil, s.fail("update", err)
	}
	out, err := s.repo.Update(ctx, p, changes)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) reconcileData(ctx context.Context, cur *domain.Product, submitted []DataInput) (*productrepo.DataChanges, error) {
	pt, err := s.catalog.Get(ctx, cur.ProductTypeID)
	if err != nil {
		return nil, err
	}
	fields, err := s.fields(ctx, pt.ID)
	if err != nil {
		return nil, err
	}

	owned := make([]string, 0, len(cur.Data))
	fieldOf := make(map[string]string, len(cur.Data))
	for _, d := range cur.Data {
		owned = append(owned, d.ID)
		fieldOf[d.ID] = d.FieldID
	}
	entries := make([]reconcile.Entry[DataInput], len(submitted))
	var ids []string
	for i, d := range submitted {
		entries[i] = reconcile.Entry[DataInput]{ID: d.ID, Value: d}
		if d.ID != "" {
			ids = append(ids, d.ID)
		}
	}
	owners, err := s.repo.DataOwners(ctx, ids)
	if err != nil {
		return nil, err
	}
	exists := func(id string) bool {
		_, ok := owners[id]
		return ok
	}

	errs := &domain.BatchError{Field: "data"}
	plan := reconcile.Diff(entries, owned, exists, dataNaming, errs)

	changes := &productrepo.DataChanges{Delete: plan.Deletes, Owned: owned}
	covered := map[string]bool{}
	for _, u := range plan.Updates {
		f := fields.byID[fieldOf[u.ID]]
		covered[f.ID] = true
		if err := field.Validate(f.Type, u.Value.Value, f.Choices); err != nil {
			errs.Add(u.Index, wrapData(u.Index, err))
			continue
		}
		changes.Update = append(changes.Update, domain.Data{ID: u.ID, FieldID: f.ID, Value: u.Value.Value})
	}
	for _, c := range plan.Creates {
		f, err := s.resolveField(ctx, fields, c.Value.FieldID, pt, c.Index, errs)
		if err != nil {
			return nil, err
		}
		if f == nil {
			continue
		}
		covered[f.ID] = true
		if err := field.Validate(f.Type, c.Value.Value, f.Choices); err != nil {
			errs.Add(c.Index, wrapData(c.Index, err))
			continue
		}
		changes.Create = append(changes.Create, domain.Data{FieldID: f.ID, Value: c.Value.Value})
	}
	checkRequired(fields, covered, errs)
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return changes, nil
}

// resolveField finds the field a new data value points at. It returns nil
// after recording an error when the field is unknown or belongs to another
// product type.
func (s *Service) resolveField(ctx context.Context, fields fieldSet, fieldID string, pt *domain.ProductType, idx int, errs *domain.BatchError) (*domain.Field, error) {
	if f, ok := fields.byID[fieldID]; ok {
		return &f, nil
	}
	other, err := s.catalog.GetField(ctx, fieldID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		errs.Add(idx, domain.ErrDoesNotExist.Withf("Data at index %d: Field id %s does not exist", idx, fieldID))
		return nil, nil
	case err != nil:
		return nil, err
	}
	errs.Add(idx, domain.ErrFieldNotPartOfType.Withf("field %s is not part of %s", other.Name, pt.Name))
	return nil, nil
}

// fieldSet is the field list of one product type, indexed by id.
type fieldSet struct {
	list []domain.Field
	byID map[string]domain.Field
}

func (s *Service) fields(ctx context.Context, productTypeID string) (fieldSet, error) {
	list, err := s.catalog.ListFields(ctx, productTypeID)
	if err != nil {
		return fieldSet{}, fmt.Errorf("list fields: %w", err)
	}
	set := fieldSet{list: list, byID: make(map[string]domain.Field, len(list))}
	for _, f := range list {
		set.byID[f.ID] = f
	}
	return set, nil
}

func (s *Service) fail(op string, err error) error {
	s.metrics.ObserveError("product."+op, err)
	return err
}

// Clean checks the owner identifiers of a product.
func Clean(p domain.Product) error {
	var errs []error
	if p.BSN != "" {
		if err := field.ValidateBSN(p.BSN); err != nil {
			errs = append(errs, domain.OnField("bsn", err))
		}
	}
	if p.KVK != "" && !kvkPattern.MatchString(p.KVK) {
		errs = append(errs, domain.OnField("kvk", domain.ErrInvalidKVK))
	}
	if p.BSN == "" && p.KVK == "" {
		errs = append(errs, domain.OnField("nonFieldErrors", domain.ErrOwnerRequired))
	}
	if !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		errs = append(errs, domain.OnField("endDate", domain.Invalid("The end date must be on or after the start date.")))
	}
	return errors.Join(errs...)
}

func wrapData(idx int, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return &domain.Error{Kind: de.Kind, Code: de.Code, Message: fmt.Sprintf("Data at index %d: %s", idx, de.Message)}
	}
	return fmt.Errorf("Data at index %d: %w", idx, err)
}

// checkRequired reports the required fields of the type that covered lacks,
// in the order the store lists them.
func checkRequired(fields fieldSet, covered map[string]bool, errs *domain.BatchError) {
	var missing []string
	for _, f := range fields.list {
		if f.IsRequired && !covered[f.ID] {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		errs.Add(-1, domain.ErrMissingRequiredFields.Withf("Missing required fields: %s", strings.Join(missing, ", ")))
	}
}
