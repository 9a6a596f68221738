package attachment

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"open-producten/internal/db"
	"open-producten/internal/domain"
	"open-producten/internal/logger"
)

const metaColumns = `id::text, product_type_id::text, name, content_type, size, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.SugaredLogger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log)}
}

func (r *postgresRepo) List(ctx context.Context, productTypeID string) ([]domain.File, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+metaColumns+` FROM product_type_files WHERE product_type_id = $1 ORDER BY created_at, id`, productTypeID)
	if err != nil {
		return nil, db.MapError(err)
	}
	return pgx.CollectRows(rows, scanMeta)
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.File, error) {
	var f domain.File
	err := r.pool.QueryRow(ctx, `SELECT `+metaColumns+`, content FROM product_type_files WHERE id = $1`, id).
		Scan(&f.ID, &f.ProductTypeID, &f.Name, &f.ContentType, &f.Size, &f.CreatedAt, &f.Content)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &f, nil
}

func (r *postgresRepo) Create(ctx context.Context, f domain.File) (*domain.File, error) {
	const q = `
INSERT INTO product_type_files (product_type_id, name, content_type, size, content)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + metaColumns
	rows, err := r.pool.Query(ctx, q, f.ProductTypeID, f.Name, f.ContentType, int64(len(f.Content)), f.Content)
	if err != nil {
		return nil, db.MapError(err)
	}
	out, err := pgx.CollectExactlyOneRow(rows, scanMeta)
	if err != nil {
		r.logger.Errorw("file repo: create failed", "product_type_id", f.ProductTypeID, "name", f.Name, "error", err)
		return nil, db.MapError(err)
	}
	r.logger.Infow("file repo: created", "id", out.ID, "size", out.Size)
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM product_type_files WHERE id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMeta(row pgx.CollectableRow) (domain.File, error) {
	var f domain.File
	err := row.Scan(&f.ID, &f.ProductTypeID, &f.Name, &f.ContentType, &f.Size, &f.CreatedAt)
	return f, err
}
