package price

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"open-producten/internal/domain"
	"open-producten/internal/testdb"
)

func productType(ctx context.Context, t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	var upnID, id string
	err := pool.QueryRow(ctx, `INSERT INTO uniform_product_names (name, uri) VALUES ('paspoort', 'http://standaarden.overheid.nl/owms/terms/paspoort') RETURNING id::text`).Scan(&upnID)
	if err != nil {
		t.Fatalf("insert upn: %v", err)
	}
	err = pool.QueryRow(ctx, `INSERT INTO product_types (name, uniform_product_name_id) VALUES ('Paspoort', $1) RETURNING id::text`, upnID).Scan(&id)
	if err != nil {
		t.Fatalf("insert product type: %v", err)
	}
	return id
}

func day(d int) time.Time {
	return time.Date(2024, 7, d, 0, 0, 0, 0, time.UTC)
}

func TestPostgres_CreateAndCurrent(t *testing.T) {
	ctx := context.Background()
	pool := testdb.Pool(ctx, t)
	ptID := productType(ctx, t, pool)
	repo := NewPostgres(pool, nil)

	for _, start := range []int{1, 10, 20} {
		_, err := repo.Create(ctx, domain.Price{ProductTypeID: ptID, StartDate: day(start), Options: []domain.PriceOption{{AmountCents: int64(start * 100), Description: "normaal"}}})
		if err != nil {
			t.Fatalf("Create %d: %v", start, err)
		}
	}

	cur, err := repo.Current(ctx, ptID, day(15))
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if !cur.StartDate.Equal(day(10)) || len(cur.Options) != 1 || cur.Options[0].AmountCents != 1000 {
		t.Fatalf("unexpected current price %+v", cur)
	}
	if _, err := repo.Current(ctx, ptID, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before the first price, got %v", err)
	}

	_, err = repo.Create(ctx, domain.Price{ProductTypeID: ptID, StartDate: day(10), Options: []domain.PriceOption{{AmountCents: 1, Description: "x"}}})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for a second price on the same day, got %v", err)
	}
}

func TestPostgres_UpdateSyncsOptions(t *testing.T) {
	ctx := context.Background()
	pool := testdb.Pool(ctx, t)
	repo := NewPostgres(pool, nil)

	p, err := repo.Create(ctx, domain.Price{ProductTypeID: productType(ctx, t, pool), StartDate: day(1), Options: []domain.PriceOption{
		{AmountCents: 100, Description: "kind"},
		{AmountCents: 500, Description: "volwassene"},
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	child, adult := p.Options[0], p.Options[1]

	p.StartDate = day(2)
	got, err := repo.Update(ctx, *p, &OptionChanges{
		Update: []domain.PriceOption{{ID: adult.ID, AmountCents: 650, Description: "volwassene"}},
		Delete: []string{child.ID},
		Create: []domain.PriceOption{{AmountCents: 250, Description: "senior"}},
		Owned:  []string{child.ID, adult.ID},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !got.StartDate.Equal(day(2)) || len(got.Options) != 2 {
		t.Fatalf("unexpected price %+v", got)
	}
	// options come back ordered by amount
	if got.Options[0].Description != "senior" || got.Options[1].ID != adult.ID || got.Options[1].AmountCents != 650 {
		t.Fatalf("unexpected options %+v", got.Options)
	}

	owners, err := repo.OptionOwners(ctx, []string{adult.ID, child.ID, "garbage"})
	if err != nil {
		t.Fatalf("OptionOwners: %v", err)
	}
	if len(owners) != 1 || owners[adult.ID] != p.ID {
		t.Fatalf("deleted and malformed ids must be unknown, got %+v", owners)
	}

	_, err = repo.Update(ctx, *got, &OptionChanges{Delete: []string{adult.ID}, Owned: []string{child.ID, adult.ID}})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for changes computed against old options, got %v", err)
	}
}
