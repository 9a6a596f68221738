package category

import (
	"context"

	"open-producten/internal/domain"
)

// Repository stores the category tree. Every read that returns several
// categories returns them ordered by path, which is pre-order.
type Repository interface {
	Get(ctx context.Context, id string) (*domain.Category, error)
	GetByPath(ctx context.Context, path string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	// Subtree returns the category at path and all its descendants.
	Subtree(ctx context.Context, path string) ([]domain.Category, error)
	// Children returns the direct children of parentPath; "" lists the roots.
	Children(ctx context.Context, parentPath string) ([]domain.Category, error)
	ByPaths(ctx context.Context, paths []string) ([]domain.Category, error)

	Insert(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	SetPublished(ctx context.Context, published map[string]bool) error
	// Relocate rewrites the prefix of every path under oldPrefix (inclusive)
	// to newPrefix and recomputes depths.
	Relocate(ctx context.Context, oldPrefix, newPrefix string) error
	// DeleteSubtree removes the category at path and its descendants.
	DeleteSubtree(ctx context.Context, path string) error

	ProductTypeIDs(ctx context.Context, categoryID string) ([]string, error)
	SetProductTypes(ctx context.Context, categoryID string, productTypeIDs []string) error

	// LockTree serializes structural changes for the rest of the transaction.
	LockTree(ctx context.Context) error
	// LockSubtree row-locks the category at path and its descendants.
	LockSubtree(ctx context.Context, path string) error
	// WithinTx runs fn against a transactional view of the repository.
	WithinTx(ctx context.Context, fn func(Repository) error) error
}
