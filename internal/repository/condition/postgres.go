package condition

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"open-producten/internal/db"
	"open-producten/internal/domain"
	"open-producten/internal/logger"
)

const columns = `id::text, name, question, positive_text, negative_text, rule`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.SugaredLogger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log)}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Condition, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM conditions ORDER BY name, id`)
	if err != nil {
		r.logger.Errorw("condition repo: list failed", "error", err)
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Condition])
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Condition, error) {
	return one(r.pool.Query(ctx, `SELECT `+columns+` FROM conditions WHERE id = $1`, id))
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Condition) (*domain.Condition, error) {
	const q = `
INSERT INTO conditions (name, question, positive_text, negative_text, rule)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + columns
	return one(r.pool.Query(ctx, q, c.Name, c.Question, c.PositiveText, c.NegativeText, c.Rule))
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Condition) (*domain.Condition, error) {
	const q = `
UPDATE conditions
SET name = $2, question = $3, positive_text = $4, negative_text = $5, rule = $6
WHERE id = $1
RETURNING ` + columns
	return one(r.pool.Query(ctx, q, c.ID, c.Name, c.Question, c.PositiveText, c.NegativeText, c.Rule))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM conditions WHERE id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func one(rows pgx.Rows, err error) (*domain.Condition, error) {
	if err != nil {
		return nil, db.MapError(err)
	}
	c, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[domain.Condition])
	if err != nil {
		return nil, db.MapError(err)
	}
	return &c, nil
}
