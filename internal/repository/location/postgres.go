package location

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"open-producten/internal/db"
	"open-producten/internal/domain"
	"open-producten/internal/logger"
)

const (
	addressColumns      = `name, email, phone_number, street, house_number, postcode, city`
	locationColumns     = `id::text, ` + addressColumns
	organisationColumns = `id::text, ` + addressColumns + `, slug, type_id::text, COALESCE(neighbourhood_id::text, '')`
	contactColumns      = `id::text, COALESCE(organisation_id::text, ''), first_name, last_name, email, phone_number, role`
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.SugaredLogger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log)}
}

func (r *postgresRepo) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return list(ctx, r, `SELECT `+locationColumns+` FROM locations ORDER BY name, id`, scanLocation)
}

func (r *postgresRepo) GetLocation(ctx context.Context, id string) (*domain.Location, error) {
	return one(ctx, r, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, scanLocation, id)
}

// SaveLocation inserts l when it has no id and updates it otherwise.
func (r *postgresRepo) SaveLocation(ctx context.Context, l domain.Location) (*domain.Location, error) {
	a := l.Address
	if l.ID == "" {
		const q = `INSERT INTO locations (` + addressColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING ` + locationColumns
		return one(ctx, r, q, scanLocation, a.Name, a.Email, a.PhoneNumber, a.Street, a.HouseNumber, a.Postcode, a.City)
	}
	const q = `
UPDATE locations
SET name = $2, email = $3, phone_number = $4, street = $5, house_number = $6, postcode = $7, city = $8
WHERE id = $1
RETURNING ` + locationColumns
	return one(ctx, r, q, scanLocation, l.ID, a.Name, a.Email, a.PhoneNumber, a.Street, a.HouseNumber, a.Postcode, a.City)
}

func (r *postgresRepo) DeleteLocation(ctx context.Context, id string) error {
	return r.delete(ctx, "locations", id)
}

func (r *postgresRepo) ListOrganisations(ctx context.Context) ([]domain.Organisation, error) {
	return list(ctx, r, `SELECT `+organisationColumns+` FROM organisations ORDER BY name, id`, scanOrganisation)
}

func (r *postgresRepo) GetOrganisation(ctx context.Context, id string) (*domain.Organisation, error) {
	return one(ctx, r, `SELECT `+organisationColumns+` FROM organisations WHERE id = $1`, scanOrganisation, id)
}

func (r *postgresRepo) SaveOrganisation(ctx context.Context, o domain.Organisation) (*domain.Organisation, error) {
	if err := r.checkRef(ctx, "organisation_types", "typeId", o.TypeID); err != nil {
		return nil, err
	}
	if err := r.checkRef(ctx, "neighbourhoods", "neighbourhoodId", o.NeighbourhoodID); err != nil {
		return nil, err
	}
	a := o.Address
	if o.ID == "" {
		const q = `
INSERT INTO organisations (` + addressColumns + `, slug, type_id, neighbourhood_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, '')::uuid)
RETURNING ` + organisationColumns
		return one(ctx, r, q, scanOrganisation, a.Name, a.Email, a.PhoneNumber, a.Street, a.HouseNumber, a.Postcode, a.City, o.Slug, o.TypeID, o.NeighbourhoodID)
	}
	const q = `
UPDATE organisations
SET name = $2, email = $3, phone_number = $4, street = $5, house_number = $6, postcode = $7, city = $8,
    slug = $9, type_id = $10, neighbourhood_id = NULLIF($11, '')::uuid
WHERE id = $1
RETURNING ` + organisationColumns
	return one(ctx, r, q, scanOrganisation, o.ID, a.Name, a.Email, a.PhoneNumber, a.Street, a.HouseNumber, a.Postcode, a.City, o.Slug, o.TypeID, o.NeighbourhoodID)
}

func (r *postgresRepo) DeleteOrganisation(ctx context.Context, id string) error {
	return r.delete(ctx, "organisations", id)
}

func (r *postgresRepo) ListOrganisationTypes(ctx context.Context) ([]domain.OrganisationType, error) {
	return list(ctx, r, `SELECT id::text, name FROM organisation_types ORDER BY name`, scanOrganisationType)
}

func (r *postgresRepo) SaveOrganisationType(ctx context.Context, t domain.OrganisationType) (*domain.OrganisationType, error) {
	if t.ID == "" {
		return one(ctx, r, `INSERT INTO organisation_types (name) VALUES ($1) RETURNING id::text, name`, scanOrganisationType, t.Name)
	}
	return one(ctx, r, `UPDATE organisation_types SET name = $2 WHERE id = $1 RETURNING id::text, name`, scanOrganisationType, t.ID, t.Name)
}

func (r *postgresRepo) DeleteOrganisationType(ctx context.Context, id string) error {
	return r.delete(ctx, "organisation_types", id)
}

func (r *postgresRepo) ListNeighbourhoods(ctx context.Context) ([]domain.Neighbourhood, error) {
	return list(ctx, r, `SELECT id::text, name FROM neighbourhoods ORDER BY name`, scanNeighbourhood)
}

func (r *postgresRepo) SaveNeighbourhood(ctx context.Context, n domain.Neighbourhood) (*domain.Neighbourhood, error) {
	if n.ID == "" {
		return one(ctx, r, `INSERT INTO neighbourhoods (name) VALUES ($1) RETURNING id::text, name`, scanNeighbourhood, n.Name)
	}
	return one(ctx, r, `UPDATE neighbourhoods SET name = $2 WHERE id = $1 RETURNING id::text, name`, scanNeighbourhood, n.ID, n.Name)
}

func (r *postgresRepo) DeleteNeighbourhood(ctx context.Context, id string) error {
	return r.delete(ctx, "neighbourhoods", id)
}

func (r *postgresRepo) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	return list(ctx, r, `SELECT `+contactColumns+` FROM contacts ORDER BY last_name, first_name, id`, scanContact)
}

func (r *postgresRepo) GetContact(ctx context.Context, id string) (*domain.Contact, error) {
	return one(ctx, r, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, scanContact, id)
}

func (r *postgresRepo) SaveContact(ctx context.Context, c domain.Contact) (*domain.Contact, error) {
	if err := r.checkRef(ctx, "organisations", "organisationId", c.OrganisationID); err != nil {
		return nil, err
	}
	if c.ID == "" {
		const q = `
INSERT INTO contacts (organisation_id, first_name, last_name, email, phone_number, role)
VALUES (NULLIF($1, '')::uuid, $2, $3, $4, $5, $6)
RETURNING ` + contactColumns
		return one(ctx, r, q, scanContact, c.OrganisationID, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Role)
	}
	const q = `
UPDATE contacts
SET organisation_id = NULLIF($2, '')::uuid, first_name = $3, last_name = $4, email = $5, phone_number = $6, role = $7
WHERE id = $1
RETURNING ` + contactColumns
	return one(ctx, r, q, scanContact, c.ID, c.OrganisationID, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Role)
}

func (r *postgresRepo) DeleteContact(ctx context.Context, id string) error {
	return r.delete(ctx, "contacts", id)
}

// checkRef reports an unknown optional reference as a field error.
func (r *postgresRepo) checkRef(ctx context.Context, table, field, id string) error {
	if id == "" {
		return nil
	}
	return db.CheckRefs(ctx, r.pool, table, field, []string{id})
}

func (r *postgresRepo) delete(ctx context.Context, table, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		r.logger.Warnw("location repo: delete failed", "table", table, "id", id, "error", err)
		return db.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func list[T any](ctx context.Context, r *postgresRepo, sql string, scan pgx.RowToFunc[T], args ...any) ([]T, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Errorw("location repo: list failed", "error", err)
		return nil, db.MapError(err)
	}
	return pgx.CollectRows(rows, scan)
}

func one[T any](ctx context.Context, r *postgresRepo, sql string, scan pgx.RowToFunc[T], args ...any) (*T, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.MapError(err)
	}
	v, err := pgx.CollectExactlyOneRow(rows, scan)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &v, nil
}

func scanAddress(row pgx.CollectableRow, id *string, a *domain.Address, rest ...any) error {
	dst := append([]any{id, &a.Name, &a.Email, &a.PhoneNumber, &a.Street, &a.HouseNumber, &a.Postcode, &a.City}, rest...)
	return row.Scan(dst...)
}

func scanLocation(row pgx.CollectableRow) (domain.Location, error) {
	var l domain.Location
	err := scanAddress(row, &l.ID, &l.Address)
	return l, err
}

func scanOrganisation(row pgx.CollectableRow) (domain.Organisation, error) {
	var o domain.Organisation
	err := scanAddress(row, &o.ID, &o.Address, &o.Slug, &o.TypeID, &o.NeighbourhoodID)
	return o, err
}

func scanOrganisationType(row pgx.CollectableRow) (domain.OrganisationType, error) {
	var t domain.OrganisationType
	err := row.Scan(&t.ID, &t.Name)
	return t, err
}

func scanNeighbourhood(row pgx.CollectableRow) (domain.Neighbourhood, error) {
	var n domain.Neighbourhood
	err := row.Scan(&n.ID, &n.Name)
	return n, err
}

func scanContact(row pgx.CollectableRow) (domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(&c.ID, &c.OrganisationID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber, &c.Role)
	return c, err
}
