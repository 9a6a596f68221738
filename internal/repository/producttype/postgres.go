package producttype

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"open-producten/internal/db"
	"open-producten/internal/domain"
	"open-producten/internal/logger"
)

const productTypeColumns = `id::text, name, summary, content, form_link, keywords, published, uniform_product_name_id::text, created_at, updated_at`

// relation describes one many-to-many set owned by a product type.
type relation struct {
	table  string
	column string
	// target is the referenced table, field the request attribute.
	target string
	field  string
	ids    func(*domain.ProductType) *[]string
}

var relations = []relation{
	{"category_product_types", "category_id", "categories", "categoryIds", func(pt *domain.ProductType) *[]string { return &pt.CategoryIDs }},
	{"product_type_tags", "tag_id", "tags", "tagIds", func(pt *domain.ProductType) *[]string { return &pt.TagIDs }},
	{"product_type_conditions", "condition_id", "conditions", "conditionIds", func(pt *domain.ProductType) *[]string { return &pt.ConditionIDs }},
	{"related_product_types", "related_id", "product_types", "relatedProductTypeIds", func(pt *domain.ProductType) *[]string { return &pt.RelatedProductTypeIDs }},
}

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.SugaredLogger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log)}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.ProductType, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productTypeColumns+` FROM product_types ORDER BY name, id`)
	if err != nil {
		r.logger.Errorw("product type repo: list failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.ProductType
	for rows.Next() {
		pt, err := scanProductType(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *pt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debugw("product type repo: list", "count", len(result))
	return result, nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.ProductType, error) {
	pt, err := scanProductType(r.pool.QueryRow(ctx, `SELECT `+productTypeColumns+` FROM product_types WHERE id = $1`, id))
	if err != nil {
		return nil, db.MapError(err)
	}
	for _, rel := range relations {
		q := fmt.Sprintf(`SELECT %s::text FROM %s WHERE product_type_id = $1 ORDER BY %s`, rel.column, rel.table, rel.column)
		rows, err := r.pool.Query(ctx, q, id)
		if err != nil {
			return nil, err
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return nil, err
		}
		*rel.ids(pt) = ids
	}
	return pt, nil
}

func (r *postgresRepo) Create(ctx context.Context, pt domain.ProductType) (*domain.ProductType, error) {
	const q = `
INSERT INTO product_types (name, summary, content, form_link, keywords, published, uniform_product_name_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + productTypeColumns
	var out *domain.ProductType
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		out, err = scanProductType(tx.QueryRow(ctx, q, pt.Name, pt.Summary, pt.Content, pt.FormLink, keywords(pt.Keywords), pt.Published, pt.UniformProductNameID))
		if err != nil {
			return err
		}
		return replaceRelations(ctx, tx, out.ID, &pt, out)
	})
	if err != nil {
		r.logger.Errorw("product type repo: create failed", "name", pt.Name, "error", err)
		return nil, db.MapError(err)
	}
	r.logger.Infow("product type repo: created", "id", out.ID)
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, pt domain.ProductType) (*domain.ProductType, error) {
	const q = `
UPDATE product_types
SET name = $2, summary = $3, content = $4, form_link = $5, keywords = $6, published = $7,
    uniform_product_name_id = $8, updated_at = NOW()
WHERE id = $1
RETURNING ` + productTypeColumns
	var out *domain.ProductType
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		out, err = scanProductType(tx.QueryRow(ctx, q, pt.ID, pt.Name, pt.Summary, pt.Content, pt.FormLink, keywords(pt.Keywords), pt.Published, pt.UniformProductNameID))
		if err != nil {
			return err
		}
		return replaceRelations(ctx, tx, out.ID, &pt, out)
	})
	if err != nil {
		r.logger.Errorw("product type repo: update failed", "id", pt.ID, "error", err)
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "product_types", id)
}

func replaceRelations(ctx context.Context, tx pgx.Tx, id string, in, out *domain.ProductType) error {
	var missing []error
	for _, rel := range relations {
		if err := db.CheckRefs(ctx, tx, rel.target, rel.field, *rel.ids(in)); err != nil {
			missing = append(missing, err)
		}
	}
	if err := errors.Join(missing...); err != nil {
		return err
	}
	for _, rel := range relations {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE product_type_id = $1`, rel.table), id); err != nil {
			return err
		}
		ids := *rel.ids(in)
		if len(ids) > 0 {
			q := fmt.Sprintf(`INSERT INTO %s (product_type_id, %s) SELECT $1, unnest($2::uuid[])`, rel.table, rel.column)
			if _, err := tx.Exec(ctx, q, id, ids); err != nil {
				return err
			}
		}
		*rel.ids(out) = append([]string{}, ids...)
	}
	return nil
}

func (r *postgresRepo) deleteByID(ctx context.Context, table, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		r.logger.Errorw("product type repo: delete failed", "table", table, "id", id, "error", err)
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func keywords(k []string) []string {
	if k == nil {
		return []string{}
	}
	return k
}

func scanProductType(row pgx.Row) (*domain.ProductType, error) {
	var pt domain.ProductType
	if err := row.Scan(&pt.ID, &pt.Name, &pt.Summary, &pt.Content, &pt.FormLink, &pt.Keywords, &pt.Published, &pt.UniformProductNameID, &pt.CreatedAt, &pt.UpdatedAt); err != nil {
		return nil, err
	}
	return &pt, nil
}
