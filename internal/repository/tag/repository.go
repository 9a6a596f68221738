package tag

import (
	"context"

	"open-producten/internal/domain"
)

type Repository interface {
	ListTypes(ctx context.Context) ([]domain.TagType, error)
	GetType(ctx context.Context, id string) (*domain.TagType, error)
	CreateType(ctx context.Context, t domain.TagType) (*domain.TagType, error)
	UpdateType(ctx context.Context, t domain.TagType) (*domain.TagType, error)
	// DeleteType removes the type; its tags stay, without a type.
	DeleteType(ctx context.Context, id string) error

	List(ctx context.Context) ([]domain.Tag, error)
	Get(ctx context.Context, id string) (*domain.Tag, error)
	Create(ctx context.Context, t domain.Tag) (*domain.Tag, error)
	Update(ctx context.Context, t domain.Tag) (*domain.Tag, error)
	Delete(ctx context.Context, id string) error
}
