package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-producten/internal/domain"
	"open-producten/internal/testdb"
)

func TestCheckRefsMalformedIDs(t *testing.T) {
	// no valid uuid, so the database is never asked
	err := CheckRefs(context.Background(), nil, "product_types", "productTypeIds", []string{"x", "1"})

	var be *domain.BatchError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "productTypeIds", be.Field)
	require.Len(t, be.Items, 2)
	assert.Equal(t, 1, be.Items[1].Index)
	assert.ErrorIs(t, be.Items[0].Err, domain.ErrDoesNotExist)
	assert.Equal(t, `Invalid pk "x" - object does not exist.`, be.Items[0].Err.Error())

	assert.NoError(t, CheckRefs(context.Background(), nil, "product_types", "productTypeIds", nil))
}

func TestCheckRefsAndOwnedPostgres(t *testing.T) {
	ctx := context.Background()
	pool := testdb.Pool(ctx, t)

	var known string
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO tag_types (name) VALUES ('thema') RETURNING id::text`).Scan(&known))
	ghost := "00000000-0000-0000-0000-000000000000"

	err := CheckRefs(ctx, pool, "tag_types", "typeIds", []string{known, ghost, "nope"})
	var be *domain.BatchError
	require.True(t, errors.As(err, &be))
	require.Len(t, be.Items, 2)
	assert.Equal(t, 1, be.Items[0].Index)
	assert.Equal(t, 2, be.Items[1].Index)

	require.NoError(t, CheckRefs(ctx, pool, "tag_types", "typeIds", []string{known}))

	var tagID string
	require.NoError(t, pool.QueryRow(ctx, `INSERT INTO tags (name, type_id) VALUES ('afval', $1) RETURNING id::text`, known).Scan(&tagID))
	assert.NoError(t, CheckOwned(ctx, pool, "tags", "type_id", known, []string{tagID}))
	assert.ErrorIs(t, CheckOwned(ctx, pool, "tags", "type_id", known, nil), domain.ErrConflict)
	assert.ErrorIs(t, CheckOwned(ctx, pool, "tags", "type_id", known, []string{ghost}), domain.ErrConflict)
}
