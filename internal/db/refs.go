package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"open-producten/internal/domain"
)

// CheckRefs reports every entry of ids without a row in table under field,
// one error per index. Malformed uuids count as missing.
func CheckRefs(ctx context.Context, q Querier, table, field string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if u, err := uuid.Parse(id); err == nil {
			valid = append(valid, u.String())
		}
	}

	found := make(map[string]struct{}, len(valid))
	if len(valid) > 0 {
		sql := `SELECT id::text FROM ` + pgx.Identifier{table}.Sanitize() + ` WHERE id = ANY($1::uuid[])`
		rows, err := q.Query(ctx, sql, valid)
		if err != nil {
			return MapError(err)
		}
		existing, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return MapError(err)
		}
		for _, id := range existing {
			found[id] = struct{}{}
		}
	}

	errs := &domain.BatchError{Field: field}
	for i, id := range ids {
		if u, err := uuid.Parse(id); err == nil {
			if _, ok := found[u.String()]; ok {
				continue
			}
		}
		errs.Add(i, domain.ErrDoesNotExist.Withf("Invalid pk %q - object does not exist.", id))
	}
	return errs.ErrOrNil()
}

// CheckOwned is run after the parent row is locked. It returns domain.ErrConflict when the children of parentID
// in table no longer match want, the set a change was computed against.
func CheckOwned(ctx context.Context, q Querier, table, parentColumn, parentID string, want []string) error {
	sql := `SELECT id::text FROM ` + pgx.Identifier{table}.Sanitize() + ` WHERE ` + pgx.Identifier{parentColumn}.Sanitize() + ` = $1`
	rows, err := q.Query(ctx, sql, parentID)
	if err != nil {
		return MapError(err)
	}
	have, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return MapError(err)
	}
	if len(have) != len(want) {
		return fmt.Errorf("%w: %s of %s changed concurrently", domain.ErrConflict, table, parentID)
	}
	expected := make(map[string]struct{}, len(want))
	for _, id := range want {
		expected[id] = struct{}{}
	}
	for _, id := range have {
		if _, ok := expected[id]; !ok {
			return fmt.Errorf("%w: %s of %s changed concurrently", domain.ErrConflict, table, parentID)
		}
	}
	return nil
}
