package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"open-producten/internal/db"
	"open-producten/internal/domain"
	"open-producten/internal/logger"
)

// treeLockKey is the advisory lock taken by structural tree changes.
const treeLockKey int64 = 0x63617467

const selectColumns = `id::text, path, depth, name, description, published, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	q      db.Querier
	logger *zap.SugaredLogger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.SugaredLogger) Repository {
	return &postgresRepo{pool: pool, q: pool, logger: logger.OrNop(log)}
}

func (r *postgresRepo) WithinTx(ctx context.Context, fn func(Repository) error) error {
	if r.pool == nil {
		// already inside a transaction
		return fn(r)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&postgresRepo{q: tx, logger: r.logger})
	})
}

func (r *postgresRepo) LockTree(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, treeLockKey); err != nil {
		return fmt.Errorf("lock category tree: %w", err)
	}
	return nil
}

func (r *postgresRepo) LockSubtree(ctx context.Context, path string) error {
	const q = `SELECT id FROM categories WHERE path LIKE $1 || '%' ORDER BY path FOR UPDATE`
	rows, err := r.q.Query(ctx, q, path)
	if err != nil {
		return fmt.Errorf("lock subtree %s: %w", path, err)
	}
	rows.Close()
	return rows.Err()
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Category, error) {
	q := `SELECT ` + selectColumns + ` FROM categories WHERE id = $1`
	c, err := scanOne(r.q.QueryRow(ctx, q, id))
	if err != nil {
		return nil, db.MapError(err)
	}
	return c, nil
}

func (r *postgresRepo) GetByPath(ctx context.Context, path string) (*domain.Category, error) {
	q := `SELECT ` + selectColumns + ` FROM categories WHERE path = $1`
	c, err := scanOne(r.q.QueryRow(ctx, q, path))
	if err != nil {
		return nil, db.MapError(err)
	}
	return c, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM categories ORDER BY path`)
}

func (r *postgresRepo) Subtree(ctx context.Context, path string) ([]domain.Category, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM categories WHERE path LIKE $1 || '%' ORDER BY path`, path)
}

func (r *postgresRepo) Children(ctx context.Context, parentPath string) ([]domain.Category, error) {
	const where = ` FROM categories WHERE path LIKE $1 || '%' AND depth = $2 ORDER BY path`
	return r.list(ctx, `SELECT `+selectColumns+where, parentPath, len(parentPath)/4+1)
}

func (r *postgresRepo) ByPaths(ctx context.Context, paths []string) ([]domain.Category, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+selectColumns+` FROM categories WHERE path = ANY($1) ORDER BY path`, paths)
}

func (r *postgresRepo) Insert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (path, depth, name, description, published)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + selectColumns
	out, err := scanOne(r.q.QueryRow(ctx, q, c.Path, c.Depth, c.Name, c.Description, c.Published))
	if err != nil {
		r.logger.Errorw("category repo: insert failed", "path", c.Path, "error", err)
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
UPDATE categories
SET name = $2, description = $3, published = $4, updated_at = NOW()
WHERE id = $1
RETURNING ` + selectColumns
	out, err := scanOne(r.q.QueryRow(ctx, q, c.ID, c.Name, c.Description, c.Published))
	if err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) SetPublished(ctx context.Context, published map[string]bool) error {
	ids := make([]string, 0, len(published))
	flags := make([]bool, 0, len(published))
	for id, p := range published {
		ids = append(ids, id)
		flags = append(flags, p)
	}
	const q = `
UPDATE categories c
SET published = m.published, updated_at = NOW()
FROM unnest($1::uuid[], $2::boolean[]) AS m(id, published)
WHERE c.id = m.id`
	if _, err := r.q.Exec(ctx, q, ids, flags); err != nil {
		r.logger.Errorw("category repo: batch publish failed", "count", len(ids), "error", err)
		return db.MapError(err)
	}
	return nil
}

func (r *postgresRepo) Relocate(ctx context.Context, oldPrefix, newPrefix string) error {
	const q = `
UPDATE categories
SET path = $2 || substring(path FROM $3),
    depth = char_length($2 || substring(path FROM $3)) / 4,
    updated_at = NOW()
WHERE path LIKE $1 || '%'`
	if _, err := r.q.Exec(ctx, q, oldPrefix, newPrefix, len(oldPrefix)+1); err != nil {
		r.logger.Errorw("category repo: relocate failed", "from", oldPrefix, "to", newPrefix, "error", err)
		return db.MapError(err)
	}
	return nil
}

func (r *postgresRepo) DeleteSubtree(ctx context.Context, path string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM categories WHERE path LIKE $1 || '%'`, path)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ProductTypeIDs(ctx context.Context, categoryID string) ([]string, error) {
	const q = `SELECT product_type_id::text FROM category_product_types WHERE category_id = $1 ORDER BY product_type_id`
	rows, err := r.q.Query(ctx, q, categoryID)
	if err != nil {
		return nil, db.MapError(err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, db.MapError(err)
	}
	return ids, nil
}

func (r *postgresRepo) SetProductTypes(ctx context.Context, categoryID string, productTypeIDs []string) error {
	if err := db.CheckRefs(ctx, r.q, "product_types", "productTypeIds", productTypeIDs); err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM category_product_types WHERE category_id = $1`, categoryID); err != nil {
		return db.MapError(err)
	}
	if len(productTypeIDs) == 0 {
		return nil
	}
	const q = `
INSERT INTO category_product_types (category_id, product_type_id)
SELECT $1, unnest($2::uuid[])`
	if _, err := r.q.Exec(ctx, q, categoryID, productTypeIDs); err != nil {
		return db.MapError(err)
	}
	return nil
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...any) ([]domain.Category, error) {
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		c, err := scanOne(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanOne(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Path, &c.Depth, &c.Name, &c.Description, &c.Published, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
