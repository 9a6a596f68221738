package condition

import (
	"context"

	"open-producten/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Condition, error)
	Get(ctx context.Context, id string) (*domain.Condition, error)
	Create(ctx context.Context, c domain.Condition) (*domain.Condition, error)
	Update(ctx context.Context, c domain.Condition) (*domain.Condition, error)
	Delete(ctx context.Context, id string) error
}
