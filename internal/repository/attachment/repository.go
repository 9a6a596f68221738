package attachment

import (
	"context"

	"open-producten/internal/domain"
)

type Repository interface {
	// List returns the files of a product type without their content.
	List(ctx context.Context, productTypeID string) ([]domain.File, error)
	// Get returns the file with its content.
	Get(ctx context.Context, id string) (*domain.File, error)
	Create(ctx context.Context, f domain.File) (*domain.File, error)
	Delete(ctx context.Context, id string) error
}
