package product

import (
	"context"

	"open-producten/internal/domain"
)

// DataChanges is an already validated change set for the data of one product.
type DataChanges struct {
	Create []domain.Data
	Update []domain.Data
	Delete []string
	// Owned is the set of child ids the changes were computed against.
	Owned []string
}

type Repository interface {
	List(ctx context.Context, productTypeID string) ([]domain.Product, error)
	// Get returns the product with its data.
	Get(ctx context.Context, id string) (*domain.Product, error)
	// Create inserts the product and its data in one transaction.
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	// Update writes the product row and, when changes is not nil, applies
	// them in the same transaction.
	Update(ctx context.Context, p domain.Product, changes *DataChanges) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	// DataOwners maps each known data id to the product owning it.
	DataOwners(ctx context.Context, ids []string) (map[string]string, error)
}
