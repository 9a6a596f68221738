package upn

import (
	"context"

	"open-producten/internal/domain"
)

type Repository interface {
	List(ctx context.Context, includeDeleted bool) ([]domain.UniformProductName, error)
	Get(ctx context.Context, id string) (*domain.UniformProductName, error)
	// Sync upserts every entry by URI and marks the entries missing from
	// the list as deleted. It reports how many entries were new.
	Sync(ctx context.Context, entries []domain.UniformProductName) (int, error)
}
