package producttype

import (
	"context"

	"github.com/jackc/pgx/v5"

	"open-producten/internal/db"
	"open-producten/internal/domain"
)

const fieldColumns = `id::text, product_type_id::text, name, description, type, is_required, choices`

func (r *postgresRepo) ListFields(ctx context.Context, productTypeID string) ([]domain.Field, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+fieldColumns+` FROM fields WHERE product_type_id = $1 ORDER BY name, id`, productTypeID)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var result []domain.Field
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetField(ctx context.Context, id string) (*domain.Field, error) {
	f, err := scanField(r.pool.QueryRow(ctx, `SELECT `+fieldColumns+` FROM fields WHERE id = $1`, id))
	if err != nil {
		return nil, db.MapError(err)
	}
	return f, nil
}

func (r *postgresRepo) CreateField(ctx context.Context, f domain.Field) (*domain.Field, error) {
	const q = `
INSERT INTO fields (product_type_id, name, description, type, is_required, choices)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + fieldColumns
	out, err := scanField(r.pool.QueryRow(ctx, q, f.ProductTypeID, f.Name, f.Description, string(f.Type), f.IsRequired, keywords(f.Choices)))
	if err != nil {
		r.logger.Errorw("product type repo: create field failed", "product_type_id", f.ProductTypeID, "error", err)
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) UpdateField(ctx context.Context, f domain.Field) (*domain.Field, error) {
	const q = `
UPDATE fields
SET name = $2, description = $3, type = $4, is_required = $5, choices = $6
WHERE id = $1
RETURNING ` + fieldColumns
	out, err := scanField(r.pool.QueryRow(ctx, q, f.ID, f.Name, f.Description, string(f.Type), f.IsRequired, keywords(f.Choices)))
	if err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) DeleteField(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "fields", id)
}

func scanField(row pgx.Row) (*domain.Field, error) {
	var (
		f  domain.Field
		ft string
	)
	if err := row.Scan(&f.ID, &f.ProductTypeID, &f.Name, &f.Description, &ft, &f.IsRequired, &f.Choices); err != nil {
		return nil, err
	}
	f.Type = domain.FieldType(ft)
	return &f, nil
}
