package product

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"open-producten/internal/db"
	"open-producten/internal/domain"
	"open-producten/internal/logger"
)

const productColumns = `id::text, product_type_id::text, start_date, end_date, COALESCE(bsn, ''), COALESCE(kvk, ''), published, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.SugaredLogger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log)}
}

func (r *postgresRepo) List(ctx context.Context, productTypeID string) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE $1 = '' OR product_type_id::text = $1
ORDER BY created_at DESC, id
`
	rows, err := r.pool.Query(ctx, q, productTypeID)
	if err != nil {
		r.logger.Errorw("product repo: list failed", "product_type_id", productTypeID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debugw("product repo: list", "product_type_id", productTypeID, "count", len(result))
	return result, nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := get(ctx, r.pool, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Errorw("product repo: get failed", "id", id, "error", err)
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (product_type_id, start_date, end_date, bsn, kvk, published)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)
RETURNING id::text
`
	var out *domain.Product
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var id string
		if err := tx.QueryRow(ctx, q, p.ProductTypeID, p.StartDate, p.EndDate, p.BSN, p.KVK, p.Published).Scan(&id); err != nil {
			return err
		}
		for _, d := range p.Data {
			if err := insertData(ctx, tx, id, d); err != nil {
				return err
			}
		}
		var err error
		out, err = get(ctx, tx, id)
		return err
	})
	if err != nil {
		r.logger.Errorw("product repo: create failed", "product_type_id", p.ProductTypeID, "error", err)
		return nil, db.MapError(err)
	}
	r.logger.Infow("product repo: created", "id", out.ID, "data", len(out.Data))
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product, changes *DataChanges) (*domain.Product, error) {
	const q = `
UPDATE products
SET start_date = $2, end_date = $3, bsn = NULLIF($4, ''), kvk = NULLIF($5, ''), published = $6, updated_at = NOW()
WHERE id = $1
`
	var out *domain.Product
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, q, p.ID, p.StartDate, p.EndDate, p.BSN, p.KVK, p.Published)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if changes != nil {
			if err := db.CheckOwned(ctx, tx, "data", "product_id", p.ID, changes.Owned); err != nil {
				return err
			}
			if len(changes.Delete) > 0 {
				if _, err := tx.Exec(ctx, `DELETE FROM data WHERE product_id = $1 AND id = ANY($2::uuid[])`, p.ID, changes.Delete); err != nil {
					return err
				}
			}
			for _, d := range changes.Update {
				if _, err := tx.Exec(ctx, `UPDATE data SET value = $3 WHERE id = $1 AND product_id = $2`, d.ID, p.ID, d.Value); err != nil {
					return err
				}
			}
			for _, d := range changes.Create {
				if err := insertData(ctx, tx, p.ID, d); err != nil {
					return err
				}
			}
		}
		out, err = get(ctx, tx, p.ID)
		return err
	})
	if err != nil {
		r.logger.Errorw("product repo: update failed", "id", p.ID, "error", err)
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Warnw("product repo: delete failed", "id", id, "error", err)
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DataOwners(ctx context.Context, ids []string) (map[string]string, error) {
	owners := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return owners, nil
	}
	// ids that are not uuids cannot exist
	rows, err := r.pool.Query(ctx, `SELECT id::text, product_id::text FROM data WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, productID string
		if err := rows.Scan(&id, &productID); err != nil {
			return nil, err
		}
		owners[id] = productID
	}
	return owners, rows.Err()
}

func get(ctx context.Context, q db.Querier, id string) (*domain.Product, error) {
	p, err := scanProduct(q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, db.MapError(err)
	}
	rows, err := q.Query(ctx, `SELECT id::text, field_id::text, product_id::text, value FROM data WHERE product_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	p.Data, err = pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Data])
	if err != nil {
		return nil, err
	}
	return p, nil
}

func insertData(ctx context.Context, q db.Querier, productID string, d domain.Data) error {
	_, err := q.Exec(ctx, `INSERT INTO data (field_id, product_id, value) VALUES ($1, $2, $3)`, d.FieldID, productID, d.Value)
	return err
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.ProductTypeID, &p.StartDate, &p.EndDate, &p.BSN, &p.KVK, &p.Published, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
