package question

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"open-producten/internal/db"
	"open-producten/internal/domain"
	"open-producten/internal/logger"
)

const columns = `id::text, category_id::text, product_type_id::text, question, answer`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.SugaredLogger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log)}
}

func (r *postgresRepo) List(ctx context.Context, owner Owner) ([]domain.Question, error) {
	const q = `
SELECT ` + columns + `
FROM questions
WHERE ($1 = '' OR category_id::text = $1) AND ($2 = '' OR product_type_id::text = $2)
ORDER BY created_at, id
`
	rows, err := r.pool.Query(ctx, q, owner.CategoryID, owner.ProductTypeID)
	if err != nil {
		r.logger.Errorw("question repo: list failed", "error", err)
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Question])
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Question, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM questions WHERE id = $1`, id)
	if err != nil {
		return nil, db.MapError(err)
	}
	return collectOne(rows)
}

func (r *postgresRepo) Create(ctx context.Context, in domain.Question) (*domain.Question, error) {
	const q = `
INSERT INTO questions (category_id, product_type_id, question, answer)
VALUES ($1, $2, $3, $4)
RETURNING ` + columns
	rows, err := r.pool.Query(ctx, q, in.CategoryID, in.ProductTypeID, in.Question, in.Answer)
	if err != nil {
		return nil, db.MapError(err)
	}
	out, err := collectOne(rows)
	if err != nil {
		r.logger.Errorw("question repo: create failed", "error", err)
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, in domain.Question) (*domain.Question, error) {
	const q = `
UPDATE questions
SET category_id = $2, product_type_id = $3, question = $4, answer = $5
WHERE id = $1
RETURNING ` + columns
	rows, err := r.pool.Query(ctx, q, in.ID, in.CategoryID, in.ProductTypeID, in.Question, in.Answer)
	if err != nil {
		return nil, db.MapError(err)
	}
	return collectOne(rows)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func collectOne(rows pgx.Rows) (*domain.Question, error) {
	q, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[domain.Question])
	if err != nil {
		return nil, db.MapError(err)
	}
	return &q, nil
}
