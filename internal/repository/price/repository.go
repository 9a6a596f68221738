package price

import (
	"context"
	"time"

	"open-producten/internal/domain"
)

// OptionChanges is a validated change set for the options of one price.
type OptionChanges struct {
	Create []domain.PriceOption
	Update []domain.PriceOption
	Delete []string
	// Owned is the set of child ids the changes were computed against.
	Owned []string
}

type Repository interface {
	List(ctx context.Context, productTypeID string) ([]domain.Price, error)
	Get(ctx context.Context, id string) (*domain.Price, error)
	// Current returns the price with the latest start date on or before day.
	Current(ctx context.Context, productTypeID string, day time.Time) (*domain.Price, error)
	Create(ctx context.Context, p domain.Price) (*domain.Price, error)
	Update(ctx context.Context, p domain.Price, changes *OptionChanges) (*domain.Price, error)
	Delete(ctx context.Context, id string) error
	// OptionOwners maps each known option id to the price owning it.
	OptionOwners(ctx context.Context, ids []string) (map[string]string, error)
}
