package producttype

import (
	"context"

	"github.com/jackc/pgx/v5"

	"open-producten/internal/db"
	"open-producten/internal/domain"
)

const linkColumns = `id::text, product_type_id::text, name, url`

func (r *postgresRepo) ListLinks(ctx context.Context, productTypeID string) ([]domain.Link, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+linkColumns+` FROM links WHERE product_type_id = $1 ORDER BY name, id`, productTypeID)
	if err != nil {
		return nil, db.MapError(err)
	}
	links, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Link, error) {
		l, err := scanLink(row)
		if err != nil {
			return domain.Link{}, err
		}
		return *l, nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *postgresRepo) GetLink(ctx context.Context, id string) (*domain.Link, error) {
	l, err := scanLink(r.pool.QueryRow(ctx, `SELECT `+linkColumns+` FROM links WHERE id = $1`, id))
	if err != nil {
		return nil, db.MapError(err)
	}
	return l, nil
}

func (r *postgresRepo) CreateLink(ctx context.Context, l domain.Link) (*domain.Link, error) {
	const q = `INSERT INTO links (product_type_id, name, url) VALUES ($1, $2, $3) RETURNING ` + linkColumns
	out, err := scanLink(r.pool.QueryRow(ctx, q, l.ProductTypeID, l.Name, l.URL))
	if err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) UpdateLink(ctx context.Context, l domain.Link) (*domain.Link, error) {
	const q = `UPDATE links SET name = $2, url = $3 WHERE id = $1 RETURNING ` + linkColumns
	out, err := scanLink(r.pool.QueryRow(ctx, q, l.ID, l.Name, l.URL))
	if err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) DeleteLink(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "links", id)
}

func scanLink(row pgx.Row) (*domain.Link, error) {
	var l domain.Link
	if err := row.Scan(&l.ID, &l.ProductTypeID, &l.Name, &l.URL); err != nil {
		return nil, err
	}
	return &l, nil
}
