package tag

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

func (r *postgresRepo) ListTypes(ctx context.Context) ([]domain.TagType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, name FROM tag_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.TagType])
}

func (r *postgresRepo) GetType(ctx context.Context, id string) (*domain.TagType, error) {
	return oneType(r.pool.Query(ctx, `SELECT id::text, name FROM tag_types WHERE id = $1`, id))
}

func (r *postgresRepo) CreateType(ctx context.Context, t domain.TagType) (*domain.TagType, error) {
	out, err := oneType(r.pool.Query(ctx, `INSERT INTO tag_types (name) VALUES ($1) RETURNING id::text, name`, t.Name))
	if err != nil {
		r.logger.Warnw("tag repo: create type failed", "name", t.Name, "error", err)
	}
	return out, err
}

func (r *postgresRepo) UpdateType(ctx context.Context, t domain.TagType) (*domain.TagType, error) {
	return oneType(r.pool.Query(ctx, `UPDATE tag_types SET name = $2 WHERE id = $1 RETURNING id::text, name`, t.ID, t.Name))
}

func (r *postgresRepo) DeleteType(ctx context.Context, id string) error {
	return r.delete(ctx, "tag_types", id)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, name, type_id::text FROM tags ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Tag])
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Tag, error) {
	return oneTag(r.pool.Query(ctx, `SELECT id::text, name, type_id::text FROM tags WHERE id = $1`, id))
}

func (r *postgresRepo) Create(ctx context.Context, t domain.Tag) (*domain.Tag, error) {
	return oneTag(r.pool.Query(ctx, `INSERT INTO tags (name, type_id) VALUES ($1, $2) RETURNING id::text, name, type_id::text`, t.Name, t.TypeID))
}

func (r *postgresRepo) Update(ctx context.Context, t domain.Tag) (*domain.Tag, error) {
	return oneTag(r.pool.Query(ctx, `UPDATE tags SET name = $2, type_id = $3 WHERE id = $1 RETURNING id::text, name, type_id::text`, t.ID, t.Name, t.TypeID))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, "tags", id)
}

func (r *postgresRepo) delete(ctx context.Context, table, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func oneType(rows pgx.Rows, err error) (*domain.TagType, error) {
	if err != nil {
		return nil, db.MapError(err)
	}
	t, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[domain.TagType])
	if err != nil {
		return nil, db.MapError(err)
	}
	return &t, nil
}

func oneTag(rows pgx.Rows, err error) (*domain.Tag, error) {
	if err != nil {
		return nil, db.MapError(err)
	}
	t, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[domain.Tag])
	if err != nil {
		return nil, db.MapError(err)
	}
	return &t, nil
}
