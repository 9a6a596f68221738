// Package seed loads a small demo catalog for manual testing.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"open-producten/internal/domain"
	categorysvc "open-producten/internal/service/category"
	producttypesvc "open-producten/internal/service/producttype"
)

// Categories is the part of the category service the seed drives.
type Categories interface {
	Roots(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, in categorysvc.CreateInput) (*domain.Category, error)
}

// ProductTypes is the part of the product type service the seed drives.
type ProductTypes interface {
	Create(ctx context.Context, pt domain.ProductType) (*domain.ProductType, error)
	CreateField(ctx context.Context, f domain.Field) (*domain.Field, error)
	ListUPNs(ctx context.Context, includeDeleted bool) ([]domain.UniformProductName, error)
}

// UPNs stores uniform product names.
type UPNs interface {
	Sync(ctx context.Context, entries []domain.UniformProductName) (int, error)
}

type categorySeed struct {
	Name      string
	Published bool
	Children  []categorySeed
}

type fieldSeed struct {
	Name     string
	Type     domain.FieldType
	Required bool
	Choices  []string
}

type productTypeSeed struct {
	Name     string
	Summary  string
	UPN      string
	Category string
	Fields   []fieldSeed
}

var demoUPNs = []domain.UniformProductName{
	{Name: "parkeervergunning", URI: "http://standaarden.overheid.nl/owms/terms/parkeervergunning"},
	{Name: "afvalcontainer", URI: "http://standaarden.overheid.nl/owms/terms/afvalcontainer"},
}

var demoCategories = []categorySeed{
	{Name: "Wonen", Published: true, Children: []categorySeed{
		{Name: "Afval", Published: true},
		{Name: "Verbouwen"},
	}},
	{Name: "Verkeer", Published: true, Children: []categorySeed{
		{Name: "Parkeren", Published: true},
	}},
}

var demoProductTypes = []productTypeSeed{
	{
		Name:     "Parkeervergunning",
		Summary:  "Vergunning om in een vergunninggebied te parkeren.",
		UPN:      "parkeervergunning",
		Category: "Parkeren",
		Fields: []fieldSeed{
			{Name: "kenteken", Type: domain.FieldTypeLicensePlate, Required: true},
			{Name: "zone", Type: domain.FieldTypeRadio, Required: true, Choices: []string{"centrum", "oost", "west"}},
		},
	},
	{
		Name:     "Extra afvalcontainer",
		Summary:  "Een extra container voor restafval.",
		UPN:      "afvalcontainer",
		Category: "Afval",
		Fields: []fieldSeed{
			{Name: "formaat", Type: domain.FieldTypeSelect, Choices: []string{"140L", "240L"}},
			{Name: "iban", Type: domain.FieldTypeIBAN, Required: true},
		},
	},
}

// Apply inserts the demo catalog. It does nothing when the tree already has
// roots, so it is safe to run repeatedly.
func Apply(ctx context.Context, cats Categories, types ProductTypes, upns UPNs, log *zap.SugaredLogger) error {
	roots, err := cats.Roots(ctx)
	if err != nil {
		return fmt.Errorf("list roots: %w", err)
	}
	if len(roots) > 0 {
		log.Infow("seed: catalog not empty, skipping", "roots", len(roots))
		return nil
	}

	if _, err := upns.Sync(ctx, demoUPNs); err != nil {
		return fmt.Errorf("sync upns: %w", err)
	}
	stored, err := types.ListUPNs(ctx, false)
	if err != nil {
		return fmt.Errorf("list upns: %w", err)
	}
	upnIDs := make(map[string]string, len(stored))
	for _, u := range stored {
		upnIDs[u.Name] = u.ID
	}

	categoryIDs := map[string]string{}
	for _, c := range demoCategories {
		if err := createCategory(ctx, cats, "", c, categoryIDs); err != nil {
			return err
		}
	}

	for _, s := range demoProductTypes {
		pt, err := types.Create(ctx, domain.ProductType{
			Name:                 s.Name,
			Summary:              s.Summary,
			Published:            true,
			UniformProductNameID: upnIDs[s.UPN],
			CategoryIDs:          []string{categoryIDs[s.Category]},
		})
		if err != nil {
			return fmt.Errorf("create product type %s: %w", s.Name, err)
		}
		for _, f := range s.Fields {
			if _, err := types.CreateField(ctx, domain.Field{
				ProductTypeID: pt.ID,
				Name:          f.Name,
				Type:          f.Type,
				IsRequired:    f.Required,
				Choices:       f.Choices,
			}); err != nil {
				return fmt.Errorf("create field %s.%s: %w", s.Name, f.Name, err)
			}
		}
	}

	log.Infow("seed: demo catalog created", "categories", len(categoryIDs), "productTypes", len(demoProductTypes))
	return nil
}

// createCategory inserts c and its children depth first; parents are
// created before children so the publish invariant holds at every step.
func createCategory(ctx context.Context, cats Categories, parentID string, c categorySeed, ids map[string]string) error {
	created, err := cats.Create(ctx, categorysvc.CreateInput{
		CategoryAttrs: domain.CategoryAttrs{Name: c.Name, Published: c.Published},
		ParentID:      parentID,
	})
	if err != nil {
		return fmt.Errorf("create category %s: %w", c.Name, err)
	}
	ids[c.Name] = created.ID
	for _, child := range c.Children {
		if err := createCategory(ctx, cats, created.ID, child, ids); err != nil {
			return err
		}
	}
	return nil
}

// Compile-time check that the services satisfy the seed's interfaces.
var (
	_ Categories   = (*categorysvc.Service)(nil)
	_ ProductTypes = (*producttypesvc.Service)(nil)
)
