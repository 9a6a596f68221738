package price

import (
	"context"
	"time"

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

func (r *postgresRepo) List(ctx context.Context, productTypeID string) ([]domain.Price, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, product_type_id::text, start_date FROM prices WHERE product_type_id = $1 ORDER BY start_date`, productTypeID)
	if err != nil {
		return nil, db.MapError(err)
	}
	prices, err := pgx.CollectRows(rows, scanPrice)
	if err != nil {
		return nil, err
	}
	for i := range prices {
		if prices[i].Options, err = options(ctx, r.pool, prices[i].ID); err != nil {
			return nil, err
		}
	}
	return prices, nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Price, error) {
	return get(ctx, r.pool, `SELECT id::text, product_type_id::text, start_date FROM prices WHERE id = $1`, id)
}

func (r *postgresRepo) Current(ctx context.Context, productTypeID string, day time.Time) (*domain.Price, error) {
	const q = `
SELECT id::text, product_type_id::text, start_date
FROM prices
WHERE product_type_id = $1 AND start_date <= $2
ORDER BY start_date DESC
LIMIT 1
`
	return get(ctx, r.pool, q, productTypeID, day)
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Price) (*domain.Price, error) {
	var out *domain.Price
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var id string
		err := tx.QueryRow(ctx, `INSERT INTO prices (product_type_id, start_date) VALUES ($1, $2) RETURNING id::text`, p.ProductTypeID, p.StartDate).Scan(&id)
		if err != nil {
			return err
		}
		for _, o := range p.Options {
			if err := insertOption(ctx, tx, id, o); err != nil {
				return err
			}
		}
		out, err = get(ctx, tx, `SELECT id::text, product_type_id::text, start_date FROM prices WHERE id = $1`, id)
		return err
	})
	if err != nil {
		r.logger.Errorw("price repo: create failed", "product_type_id", p.ProductTypeID, "error", err)
		return nil, db.MapError(err)
	}
	r.logger.Infow("price repo: created", "id", out.ID, "options", len(out.Options))
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Price, changes *OptionChanges) (*domain.Price, error) {
	var out *domain.Price
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE prices SET start_date = $2 WHERE id = $1`, p.ID, p.StartDate)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if changes != nil {
			if err := db.CheckOwned(ctx, tx, "price_options", "price_id", p.ID, changes.Owned); err != nil {
				return err
			}
			if len(changes.Delete) > 0 {
				if _, err := tx.Exec(ctx, `DELETE FROM price_options WHERE price_id = $1 AND id = ANY($2::uuid[])`, p.ID, changes.Delete); err != nil {
					return err
				}
			}
			for _, o := range changes.Update {
				const q = `UPDATE price_options SET amount_cents = $3, description = $4 WHERE id = $1 AND price_id = $2`
				if _, err := tx.Exec(ctx, q, o.ID, p.ID, o.AmountCents, o.Description); err != nil {
					return err
				}
			}
			for _, o := range changes.Create {
				if err := insertOption(ctx, tx, p.ID, o); err != nil {
					return err
				}
			}
		}
		out, err = get(ctx, tx, `SELECT id::text, product_type_id::text, start_date FROM prices WHERE id = $1`, p.ID)
		return err
	})
	if err != nil {
		r.logger.Errorw("price repo: update failed", "id", p.ID, "error", err)
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM prices WHERE id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) OptionOwners(ctx context.Context, ids []string) (map[string]string, error) {
	owners := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return owners, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id::text, price_id::text FROM price_options WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, priceID string
		if err := rows.Scan(&id, &priceID); err != nil {
			return nil, err
		}
		owners[id] = priceID
	}
	return owners, rows.Err()
}

func get(ctx context.Context, q db.Querier, sql string, args ...any) (*domain.Price, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.MapError(err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanPrice)
	if err != nil {
		return nil, db.MapError(err)
	}
	if p.Options, err = options(ctx, q, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func options(ctx context.Context, q db.Querier, priceID string) ([]domain.PriceOption, error) {
	rows, err := q.Query(ctx, `SELECT id::text, price_id::text, amount_cents, description FROM price_options WHERE price_id = $1 ORDER BY amount_cents, id`, priceID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.PriceOption])
}

func insertOption(ctx context.Context, q db.Querier, priceID string, o domain.PriceOption) error {
	_, err := q.Exec(ctx, `INSERT INTO price_options (price_id, amount_cents, description) VALUES ($1, $2, $3)`, priceID, o.AmountCents, o.Description)
	return err
}

func scanPrice(row pgx.CollectableRow) (domain.Price, error) {
	var p domain.Price
	err := row.Scan(&p.ID, &p.ProductTypeID, &p.StartDate)
	return p, err
}
