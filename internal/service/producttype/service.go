package producttype

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"open-producten/internal/domain"
	"open-producten/internal/field"
	"open-producten/internal/metrics"
	"open-producten/internal/repository/producttype"
)

const (
	maxNameLen    = 100
	maxSummaryLen = 300
)

// UPNReader looks up uniform product names.
type UPNReader interface {
	Get(ctx context.Context, id string) (*domain.UniformProductName, error)
	List(ctx context.Context, includeDeleted bool) ([]domain.UniformProductName, error)
}

// UpdateInput is a partial product type update; nil fields are kept. A
// non-nil relation slice replaces that relation set.
type UpdateInput struct {
	Name                  *string
	Summary               *string
	Content               *string
	FormLink              *string
	Keywords              []string
	Published             *bool
	UniformProductNameID  *string
	CategoryIDs           []string
	TagIDs                []string
	ConditionIDs          []string
	RelatedProductTypeIDs []string
}

// FieldUpdate is a partial field update.
type FieldUpdate struct {
	Name        *string
	Description *string
	Type        *domain.FieldType
	IsRequired  *bool
	Choices     []string
}

type Service struct {
	repo    producttype.Repository
	upns    UPNReader
	metrics *metrics.Metrics
}

func New(repo producttype.Repository, upns UPNReader, m *metrics.Metrics) *Service {
	return &Service{repo: repo, upns: upns, metrics: m}
}

func (s *Service) List(ctx context.Context) ([]domain.ProductType, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.ProductType, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListUPNs(ctx context.Context, includeDeleted bool) ([]domain.UniformProductName, error) {
	return s.upns.List(ctx, includeDeleted)
}

func (s *Service) Create(ctx context.Context, pt domain.ProductType) (*domain.ProductType, error) {
	if err := s.validate(ctx, pt); err != nil {
		return nil, s.fail("create", err)
	}
	return s.repo.Create(ctx, pt)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.ProductType, error) {
	pt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		pt.Name = *in.Name
	}
	if in.Summary != nil {
		pt.Summary = *in.Summary
	}
	if in.Content != nil {
		pt.Content = *in.Content
	}
	if in.FormLink != nil {
		pt.FormLink = *in.FormLink
	}
	if in.Keywords != nil {
		pt.Keywords = in.Keywords
	}
	if in.Published != nil {
		pt.Published = *in.Published
	}
	if in.UniformProductNameID != nil {
		pt.UniformProductNameID = *in.UniformProductNameID
	}
	if in.CategoryIDs != nil {
		pt.CategoryIDs = in.CategoryIDs
	}
	if in.TagIDs != nil {
		pt.TagIDs = in.TagIDs
	}
	if in.ConditionIDs != nil {
		pt.ConditionIDs = in.ConditionIDs
	}
	if in.RelatedProductTypeIDs != nil {
		pt.RelatedProductTypeIDs = in.RelatedProductTypeIDs
	}

	if err := s.validate(ctx, *pt); err != nil {
		return nil, s.fail("update", err)
	}
	return s.repo.Update(ctx, *pt)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(ctx context.Context, pt domain.ProductType) error {
	var errs []error
	if err := checkName(pt.Name); err != nil {
		errs = append(errs, domain.OnField("name", err))
	}
	if utf8.RuneCountInString(pt.Summary) > maxSummaryLen {
		errs = append(errs, domain.OnField("summary", domain.Invalid("Ensure this field has no more than %d characters.", maxSummaryLen)))
	}
	if pt.FormLink != "" {
		if err := checkURL(pt.FormLink); err != nil {
			errs = append(errs, domain.OnField("formLink", err))
		}
	}
	for _, set := range []struct {
		field, noun string
		ids         []string
	}{
		{"categoryIds", "Category", pt.CategoryIDs},
		{"tagIds", "Tag", pt.TagIDs},
		{"conditionIds", "Condition", pt.ConditionIDs},
		{"relatedProductTypeIds", "ProductType", pt.RelatedProductTypeIDs},
	} {
		if err := checkDuplicates(set.field, set.noun, set.ids); err != nil {
			errs = append(errs, err)
		}
	}
	if pt.ID != "" {
		for i, id := range pt.RelatedProductTypeIDs {
			if id == pt.ID {
				errs = append(errs, domain.OnField("relatedProductTypeIds", domain.Invalid("A product type cannot be related to itself (index %d).", i)))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if _, err := s.upns.Get(ctx, pt.UniformProductNameID); err != nil {
		return fmt.Errorf("uniform product name %s: %w", pt.UniformProductNameID, err)
	}
	return nil
}

func (s *Service) ListFields(ctx context.Context, productTypeID string) ([]domain.Field, error) {
	if _, err := s.repo.Get(ctx, productTypeID); err != nil {
		return nil, err
	}
	return s.repo.ListFields(ctx, productTypeID)
}

func (s *Service) GetField(ctx context.Context, id string) (*domain.Field, error) {
	return s.repo.GetField(ctx, id)
}

func (s *Service) CreateField(ctx context.Context, f domain.Field) (*domain.Field, error) {
	if err := validateField(f); err != nil {
		return nil, s.fail("create_field", err)
	}
	if _, err := s.repo.Get(ctx, f.ProductTypeID); err != nil {
		return nil, err
	}
	return s.repo.CreateField(ctx, f)
}

// UpdateField merges in over the stored field before checking the
// definition, so changing only the type or only the choices is validated
// against the other half.
func (s *Service) UpdateField(ctx context.Context, id string, in FieldUpdate) (*domain.Field, error) {
	f, err := s.repo.GetField(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		f.Name = *in.Name
	}
	if in.Description != nil {
		f.Description = *in.Description
	}
	if in.Type != nil {
		f.Type = *in.Type
	}
	if in.IsRequired != nil {
		f.IsRequired = *in.IsRequired
	}
	if in.Choices != nil {
		f.Choices = in.Choices
	}
	if err := validateField(*f); err != nil {
		return nil, s.fail("update_field", err)
	}
	return s.repo.UpdateField(ctx, *f)
}

func (s *Service) DeleteField(ctx context.Context, id string) error {
	return s.repo.DeleteField(ctx, id)
}

func validateField(f domain.Field) error {
	var errs []error
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, domain.OnField("name", domain.Invalid("This field may not be blank.")))
	}
	if err := field.ValidateDefinition(f.Type, f.Choices); err != nil {
		key := "choices"
		if errors.Is(err, domain.ErrInvalidType) {
			key = "type"
		}
		errs = append(errs, domain.OnField(key, err))
	}
	return errors.Join(errs...)
}

func (s *Service) ListLinks(ctx context.Context, productTypeID string) ([]domain.Link, error) {
	if _, err := s.repo.Get(ctx, productTypeID); err != nil {
		return nil, err
	}
	return s.repo.ListLinks(ctx, productTypeID)
}

func (s *Service) GetLink(ctx context.Context, id string) (*domain.Link, error) {
	return s.repo.GetLink(ctx, id)
}

func (s *Service) CreateLink(ctx context.Context, l domain.Link) (*domain.Link, error) {
	if err := validateLink(l); err != nil {
		return nil, s.fail("create_link", err)
	}
	if _, err := s.repo.Get(ctx, l.ProductTypeID); err != nil {
		return nil, err
	}
	return s.repo.CreateLink(ctx, l)
}

func (s *Service) UpdateLink(ctx context.Context, l domain.Link) (*domain.Link, error) {
	if err := validateLink(l); err != nil {
		return nil, s.fail("update_link", err)
	}
	return s.repo.UpdateLink(ctx, l)
}

func (s *Service) DeleteLink(ctx context.Context, id string) error {
	return s.repo.DeleteLink(ctx, id)
}

func validateLink(l domain.Link) error {
	var errs []error
	if err := checkName(l.Name); err != nil {
		errs = append(errs, domain.OnField("name", err))
	}
	if err := checkURL(l.URL); err != nil {
		errs = append(errs, domain.OnField("url", err))
	}
	return errors.Join(errs...)
}

func (s *Service) fail(op string, err error) error {
	s.metrics.ObserveError("producttype."+op, err)
	return err
}

func checkName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return domain.Invalid("This field may not be blank.")
	case utf8.RuneCountInString(name) > maxNameLen:
		return domain.Invalid("Ensure this field has no more than %d characters.", maxNameLen)
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.Invalid("Enter a valid URL.")
	}
	return nil
}

func checkDuplicates(fieldName, noun string, ids []string) error {
	errs := &domain.BatchError{Field: fieldName}
	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if _, dup := seen[id]; dup {
			errs.Add(i, domain.ErrDuplicateID.Withf("Duplicate %s id: %s at index %d", noun, id, i))
			continue
		}
		seen[id] = struct{}{}
	}
	return errs.ErrOrNil()
}
