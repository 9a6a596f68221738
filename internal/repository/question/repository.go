package question

import (
	"context"

	"open-producten/internal/domain"
)

// Owner selects the questions of one category or one product type.
type Owner struct {
	CategoryID    string
	ProductTypeID string
}

type Repository interface {
	List(ctx context.Context, owner Owner) ([]domain.Question, error)
	Get(ctx context.Context, id string) (*domain.Question, error)
	Create(ctx context.Context, q domain.Question) (*domain.Question, error)
	Update(ctx context.Context, q domain.Question) (*domain.Question, error)
	Delete(ctx context.Context, id string) error
}
