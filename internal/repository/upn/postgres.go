package upn

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"open-producten/internal/db"
	"open-producten/internal/domain"
	"open-producten/internal/logger"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.SugaredLogger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log)}
}

func (r *postgresRepo) List(ctx context.Context, includeDeleted bool) ([]domain.UniformProductName, error) {
	const q = `
SELECT id::text, name, uri, is_deleted
FROM uniform_product_names
WHERE $1 OR NOT is_deleted
ORDER BY name, uri
`
	rows, err := r.pool.Query(ctx, q, includeDeleted)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.UniformProductName])
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.UniformProductName, error) {
	var u domain.UniformProductName
	err := r.pool.QueryRow(ctx, `SELECT id::text, name, uri, is_deleted FROM uniform_product_names WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.URI, &u.IsDeleted)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &u, nil
}

func (r *postgresRepo) Sync(ctx context.Context, entries []domain.UniformProductName) (int, error) {
	const upsert = `
INSERT INTO uniform_product_names (name, uri, is_deleted)
VALUES ($1, $2, FALSE)
ON CONFLICT (uri) DO UPDATE SET name = EXCLUDED.name, is_deleted = FALSE
RETURNING id::text, (xmax = 0)
`
	created := 0
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		kept := make([]string, 0, len(entries))
		for _, e := range entries {
			var (
				id       string
				inserted bool
			)
			if err := tx.QueryRow(ctx, upsert, e.Name, e.URI).Scan(&id, &inserted); err != nil {
				return err
			}
			kept = append(kept, id)
			if inserted {
				created++
			}
		}
		tag, err := tx.Exec(ctx, `UPDATE uniform_product_names SET is_deleted = TRUE WHERE NOT is_deleted AND NOT (id = ANY($1::uuid[]))`, kept)
		if err != nil {
			return err
		}
		r.logger.Infow("upn repo: sync", "entries", len(entries), "created", created, "marked_deleted", tag.RowsAffected())
		return nil
	})
	if err != nil {
		r.logger.Errorw("upn repo: sync failed", "error", err)
		return 0, db.MapError(err)
	}
	return created, nil
}
