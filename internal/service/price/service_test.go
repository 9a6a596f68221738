package price

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-producten/internal/domain"
	"open-producten/internal/metrics"
	pricerepo "open-producten/internal/repository/price"
)

type stubRepo struct {
	prices  map[string]domain.Price
	seq     int
	changes *pricerepo.OptionChanges
}

func (s *stubRepo) id(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *stubRepo) List(_ context.Context, productTypeID string) ([]domain.Price, error) {
	var out []domain.Price
	for _, p := range s.prices {
		if p.ProductTypeID == productTypeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubRepo) Get(_ context.Context, id string) (*domain.Price, error) {
	p, ok := s.prices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (s *stubRepo) Current(_ context.Context, productTypeID string, day time.Time) (*domain.Price, error) {
	var best *domain.Price
	for _, p := range s.prices {
		if p.ProductTypeID != productTypeID || p.StartDate.After(day) {
			continue
		}
		if best == nil || p.StartDate.After(best.StartDate) {
			p := p
			best = &p
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	return best, nil
}

func (s *stubRepo) Create(_ context.Context, p domain.Price) (*domain.Price, error) {
	p.ID = s.id("price")
	for i := range p.Options {
		p.Options[i].ID = s.id("option")
		p.Options[i].PriceID = p.ID
	}
	s.prices[p.ID] = p
	return &p, nil
}

func (s *stubRepo) Update(_ context.Context, p domain.Price, changes *pricerepo.OptionChanges) (*domain.Price, error) {
	s.changes = changes
	if changes != nil {
		drop := map[string]bool{}
		for _, id := range changes.Delete {
			drop[id] = true
		}
		var opts []domain.PriceOption
		for _, o := range p.Options {
			if !drop[o.ID] {
				opts = append(opts, o)
			}
		}
		for _, o := range changes.Create {
			o.ID = s.id("option")
			opts = append(opts, o)
		}
		p.Options = opts
	}
	s.prices[p.ID] = p
	return &p, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	delete(s.prices, id)
	return nil
}

func (s *stubRepo) OptionOwners(_ context.Context, _ []string) (map[string]string, error) {
	out := map[string]string{}
	for _, p := range s.prices {
		for _, o := range p.Options {
			out[o.ID] = p.ID
		}
	}
	return out, nil
}

type stubTypes map[string]bool

func (s stubTypes) Get(_ context.Context, id string) (*domain.ProductType, error) {
	if !s[id] {
		return nil, domain.ErrNotFound
	}
	return &domain.ProductType{ID: id}, nil
}

var today = time.Date(2024, 7, 16, 9, 30, 0, 0, time.UTC)

func newService() (*Service, *stubRepo) {
	repo := &stubRepo{prices: map[string]domain.Price{}}
	svc := New(repo, stubTypes{"pt": true}, metrics.Nop())
	svc.now = func() time.Time { return today }
	return svc, repo
}

func day(d int) time.Time {
	return time.Date(2024, 7, d, 0, 0, 0, 0, time.UTC)
}

func TestCreate(t *testing.T) {
	svc, _ := newService()

	p, err := svc.Create(context.Background(), "pt", day(16), []OptionInput{{AmountCents: 2000, Description: "spoed"}})
	require.NoError(t, err)
	assert.Equal(t, "pt", p.ProductTypeID)
	require.Len(t, p.Options, 1)
	assert.NotEmpty(t, p.Options[0].ID)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "pt", day(16), nil)
	assert.EqualError(t, err, "options: At least one option is required")

	_, err = svc.Create(ctx, "pt", day(15), []OptionInput{{AmountCents: 100, Description: "x"}})
	assert.EqualError(t, err, "startDate: Ensure this value is greater than or equal to 2024-07-16.")

	_, err = svc.Create(ctx, "pt", day(20), []OptionInput{
		{AmountCents: 0, Description: "free"},
		{AmountCents: 100, Description: " "},
		{AmountCents: 100, Description: "ok"},
	})
	require.Error(t, err)
	var batch *domain.BatchError
	require.ErrorAs(t, err, &batch)
	require.Len(t, batch.Items, 2)
	assert.Equal(t, 0, batch.Items[0].Index)
	assert.Equal(t, 1, batch.Items[1].Index)

	_, err = svc.Create(ctx, "unknown", day(20), []OptionInput{{AmountCents: 100, Description: "x"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateRejectsSecondPriceOnSameDay(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	opts := []OptionInput{{AmountCents: 100, Description: "x"}}

	_, err := svc.Create(ctx, "pt", day(20), opts)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "pt", day(20), opts)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateReconcilesOptions(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "pt", day(20), []OptionInput{
		{AmountCents: 100, Description: "normaal"},
		{AmountCents: 500, Description: "spoed"},
	})
	require.NoError(t, err)
	keep := p.Options[0].ID

	got, err := svc.Update(ctx, p.ID, UpdateInput{Options: []OptionInput{
		{ID: keep, AmountCents: 150, Description: "normaal"},
		{AmountCents: 900, Description: "weekend"},
	}})
	require.NoError(t, err)
	require.NotNil(t, repo.changes)
	assert.Equal(t, []string{p.Options[1].ID}, repo.changes.Delete)
	require.Len(t, repo.changes.Update, 1)
	assert.Equal(t, int64(150), repo.changes.Update[0].AmountCents)
	assert.Len(t, got.Options, 2)
}

func TestUpdateIdentityErrors(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	opts := []OptionInput{{AmountCents: 100, Description: "x"}}

	a, err := svc.Create(ctx, "pt", day(20), opts)
	require.NoError(t, err)
	b, err := svc.Create(ctx, "pt", day(21), opts)
	require.NoError(t, err)
	own := a.Options[0].ID

	_, err = svc.Update(ctx, a.ID, UpdateInput{Options: []OptionInput{
		{ID: own, AmountCents: 100, Description: "x"},
		{ID: own, AmountCents: 100, Description: "x"},
		{ID: b.Options[0].ID, AmountCents: 100, Description: "x"},
		{ID: "ghost", AmountCents: 100, Description: "x"},
	}})
	var batch *domain.BatchError
	require.ErrorAs(t, err, &batch)
	assert.Equal(t, "options", batch.Field)
	assert.Equal(t, []string{
		"Duplicate price option id: " + own + " at index 1",
		"Price option id " + b.Options[0].ID + " at index 2 is not part of price object",
		"Price option id ghost at index 3 does not exist",
	}, batch.Messages())

	_, err = svc.Update(ctx, a.ID, UpdateInput{Options: []OptionInput{}})
	assert.EqualError(t, err, "options: At least one option is required")
}

func TestUpdateStartDate(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	opts := []OptionInput{{AmountCents: 100, Description: "x"}}

	a, err := svc.Create(ctx, "pt", day(20), opts)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "pt", day(22), opts)
	require.NoError(t, err)

	next := day(22)
	_, err = svc.Update(ctx, a.ID, UpdateInput{StartDate: &next})
	assert.ErrorIs(t, err, domain.ErrConflict)

	next = day(25)
	got, err := svc.Update(ctx, a.ID, UpdateInput{StartDate: &next})
	require.NoError(t, err)
	assert.Equal(t, day(25), got.StartDate)
	assert.Nil(t, repo.changes)
}

func TestCurrent(t *testing.T) {
	svc, repo := newService()
	repo.prices["old"] = domain.Price{ID: "old", ProductTypeID: "pt", StartDate: day(1)}
	repo.prices["now"] = domain.Price{ID: "now", ProductTypeID: "pt", StartDate: day(10)}
	repo.prices["later"] = domain.Price{ID: "later", ProductTypeID: "pt", StartDate: day(30)}

	p, err := svc.Current(context.Background(), "pt")
	require.NoError(t, err)
	assert.Equal(t, "now", p.ID)
}
