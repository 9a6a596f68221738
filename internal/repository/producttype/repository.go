package producttype

import (
	"context"

	"open-producten/internal/domain"
)

// Repository stores product types with their relation sets, fields and links.
type Repository interface {
	List(ctx context.Context) ([]domain.ProductType, error)
	// Get returns the product type with its relation ids filled.
	Get(ctx context.Context, id string) (*domain.ProductType, error)
	// Create and Update write the row and replace every relation set in one
	// transaction.
	Create(ctx context.Context, pt domain.ProductType) (*domain.ProductType, error)
	Update(ctx context.Context, pt domain.ProductType) (*domain.ProductType, error)
	Delete(ctx context.Context, id string) error

	ListFields(ctx context.Context, productTypeID string) ([]domain.Field, error)
	GetField(ctx context.Context, id string) (*domain.Field, error)
	CreateField(ctx context.Context, f domain.Field) (*domain.Field, error)
	UpdateField(ctx context.Context, f domain.Field) (*domain.Field, error)
	DeleteField(ctx context.Context, id string) error

	ListLinks(ctx context.Context, productTypeID string) ([]domain.Link, error)
	GetLink(ctx context.Context, id string) (*domain.Link, error)
	CreateLink(ctx context.Context, l domain.Link) (*domain.Link, error)
	UpdateLink(ctx context.Context, l domain.Link) (*domain.Link, error)
	DeleteLink(ctx context.Context, id string) error
}
