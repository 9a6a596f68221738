package product

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-producten/internal/domain"
	"open-producten/internal/metrics"
	productrepo "open-producten/internal/repository/product"
)

type stubRepo struct {
	products map[string]domain.Product
	seq      int
	creates  int
	changes  *productrepo.DataChanges
}

func newStubRepo() *stubRepo {
	return &stubRepo{products: map[string]domain.Product{}}
}

func (s *stubRepo) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *stubRepo) List(_ context.Context, _ string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubRepo) Get(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Data = append([]domain.Data(nil), p.Data...)
	return &p, nil
}

func (s *stubRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.creates++
	p.ID = s.nextID("product")
	for i := range p.Data {
		p.Data[i].ID = s.nextID("data")
		p.Data[i].ProductID = p.ID
	}
	s.products[p.ID] = p
	return &p, nil
}

func (s *stubRepo) Update(_ context.Context, p domain.Product, changes *productrepo.DataChanges) (*domain.Product, error) {
	s.changes = changes
	cur := s.products[p.ID]
	if changes != nil {
		drop := map[string]bool{}
		for _, id := range changes.Delete {
			drop[id] = true
		}
		values := map[string]string{}
		for _, d := range changes.Update {
			values[d.ID] = d.Value
		}
		var data []domain.Data
		for _, d := range cur.Data {
			if drop[d.ID] {
				continue
			}
			if v, ok := values[d.ID]; ok {
				d.Value = v
			}
			data = append(data, d)
		}
		for _, d := range changes.Create {
			d.ID = s.nextID("data")
			data = append(data, d)
		}
		cur.Data = data
	}
	p.Data = cur.Data
	s.products[p.ID] = p
	return &p, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	delete(s.products, id)
	return nil
}

func (s *stubRepo) DataOwners(_ context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, p := range s.products {
		for _, d := range p.Data {
			out[d.ID] = p.ID
		}
	}
	return out, nil
}

type stubCatalog struct {
	types  map[string]domain.ProductType
	fields []domain.Field
}

func (c *stubCatalog) Get(_ context.Context, id string) (*domain.ProductType, error) {
	pt, ok := c.types[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &pt, nil
}

func (c *stubCatalog) ListFields(_ context.Context, productTypeID string) ([]domain.Field, error) {
	var out []domain.Field
	for _, f := range c.fields {
		if f.ProductTypeID == productTypeID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (c *stubCatalog) GetField(_ context.Context, id string) (*domain.Field, error) {
	for _, f := range c.fields {
		if f.ID == id {
			return &f, nil
		}
	}
	return nil, domain.ErrNotFound
}

func fixture() (*Service, *stubRepo) {
	catalog := &stubCatalog{
		types: map[string]domain.ProductType{
			"pt":    {ID: "pt", Name: "parking permit"},
			"other": {ID: "other", Name: "passport"},
		},
		fields: []domain.Field{
			{ID: "f-name", ProductTypeID: "pt", Name: "f", Type: domain.FieldTypeTextfield, IsRequired: true},
			{ID: "f-plate", ProductTypeID: "pt", Name: "plate", Type: domain.FieldTypeLicensePlate, IsRequired: true},
			{ID: "f-size", ProductTypeID: "pt", Name: "size", Type: domain.FieldTypeRadio, Choices: []string{"s", "m"}},
			{ID: "f-count", ProductTypeID: "pt", Name: "count", Type: domain.FieldTypeNumber},
			{ID: "f-foreign", ProductTypeID: "other", Name: "height", Type: domain.FieldTypeNumber},
		},
	}
	repo := newStubRepo()
	return New(repo, catalog, metrics.Nop()), repo
}

func validInput() CreateInput {
	return CreateInput{
		ProductTypeID: "pt",
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		BSN:           "111222333",
		Data: []DataInput{
			{FieldID: "f-name", Value: "anything"},
			{FieldID: "f-plate", Value: "AB-12-34"},
		},
	}
}

func messages(t *testing.T, err error) []string {
	t.Helper()
	var batch *domain.BatchError
	require.ErrorAs(t, err, &batch)
	return batch.Messages()
}

func TestCleanRequiresOwner(t *testing.T) {
	err := Clean(domain.Product{})
	assert.ErrorIs(t, err, domain.ErrOwnerRequired)
	assert.Contains(t, err.Error(), "A product must be linked to a bsn or kvk number (or both)")

	assert.NoError(t, Clean(domain.Product{BSN: "111222333"}))
	assert.NoError(t, Clean(domain.Product{KVK: "12345678"}))
	assert.NoError(t, Clean(domain.Product{BSN: "111222333", KVK: "12345678"}))

	assert.ErrorIs(t, Clean(domain.Product{BSN: "123456789"}), domain.ErrInvalidBSN)
	assert.ErrorIs(t, Clean(domain.Product{KVK: "1234567"}), domain.ErrInvalidKVK)
	assert.ErrorIs(t, Clean(domain.Product{KVK: "1234567a"}), domain.ErrInvalidKVK)
}

func TestCreate(t *testing.T) {
	svc, repo := fixture()

	p, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Len(t, p.Data, 2)
	assert.Equal(t, 1, repo.creates)
}

func TestCreateReportsMissingRequiredFields(t *testing.T) {
	svc, repo := fixture()
	in := validInput()
	in.Data = nil

	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredFields)
	assert.Equal(t, []string{"Missing required fields: f, plate"}, messages(t, err))
	assert.Zero(t, repo.creates, "nothing may be written for a rejected batch")
}

func TestCreateAggregatesDataErrors(t *testing.T) {
	svc, repo := fixture()
	in := validInput()
	in.Data = []DataInput{
		{FieldID: "f-name", Value: "ok"},
		{FieldID: "f-plate", Value: "nope"},
		{FieldID: "f-foreign", Value: "12"},
		{FieldID: "f-size", Value: "xl"},
		{FieldID: "ghost", Value: "1"},
	}

	_, err := svc.Create(context.Background(), in)
	require.Error(t, err)
	msgs := messages(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "Data at index 1: invalid licenseplate", msgs[0])
	assert.Equal(t, "field height is not part of parking permit", msgs[1])
	assert.Contains(t, msgs[2], "Data at index 3:")
	assert.Equal(t, "Data at index 4: Field id ghost does not exist", msgs[3])
	assert.ErrorIs(t, err, domain.ErrFieldNotPartOfType)
	assert.Zero(t, repo.creates)
}

func TestCreateUnknownProductType(t *testing.T) {
	svc, _ := fixture()
	in := validInput()
	in.ProductTypeID = "missing"

	_, err := svc.Create(context.Background(), in)
	var batch *domain.BatchError
	require.ErrorAs(t, err, &batch)
	assert.Equal(t, "productTypeId", batch.Field)
}

func TestCreateRejectsProductWithoutOwner(t *testing.T) {
	svc, repo := fixture()
	in := validInput()
	in.BSN = ""

	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrOwnerRequired)
	assert.Zero(t, repo.creates)
}

func TestUpdateReconcilesData(t *testing.T) {
	svc, repo := fixture()
	ctx := context.Background()
	in := validInput()
	in.Data = append(in.Data, DataInput{FieldID: "f-count", Value: "3"})
	p, err := svc.Create(ctx, in)
	require.NoError(t, err)
	nameID, plateID, countID := p.Data[0].ID, p.Data[1].ID, p.Data[2].ID

	out, err := svc.Update(ctx, p.ID, UpdateInput{Data: []DataInput{
		{ID: nameID, Value: "renamed"},
		{ID: plateID, Value: "XX-99-ZZ"},
		{FieldID: "f-size", Value: "m"},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{countID}, repo.changes.Delete, "omitted values are deleted")
	assert.Len(t, repo.changes.Update, 2)
	assert.Len(t, repo.changes.Create, 1)
	assert.Len(t, out.Data, 3)
}

func TestUpdateDuplicateAndForeignIDs(t *testing.T) {
	svc, repo := fixture()
	ctx := context.Background()
	first, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	second, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, first.ID, UpdateInput{Data: []DataInput{
		{ID: first.Data[0].ID, Value: "a"},
		{ID: first.Data[1].ID, Value: "AB-12-34"},
		{ID: first.Data[0].ID, Value: "b"},
		{ID: second.Data[0].ID, Value: "c"},
		{ID: "unknown", Value: "d"},
	}})
	require.Error(t, err)
	assert.Equal(t, []string{
		fmt.Sprintf("Duplicate data id: %s at index 2", first.Data[0].ID),
		fmt.Sprintf("Data id %s at index 3 is not part of product object", second.Data[0].ID),
		"Data id unknown at index 4 does not exist",
	}, messages(t, err))
	assert.Nil(t, repo.changes, "a rejected update writes nothing")
}

func TestUpdateRequiresRequiredFieldsToRemain(t *testing.T) {
	svc, _ := fixture()
	ctx := context.Background()
	p, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, UpdateInput{Data: []DataInput{{ID: p.Data[0].ID, Value: "x"}}})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredFields)
	assert.Equal(t, []string{"Missing required fields: plate"}, messages(t, err))
}

func TestUpdateRevalidatesValues(t *testing.T) {
	svc, _ := fixture()
	ctx := context.Background()
	p, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, UpdateInput{Data: []DataInput{
		{ID: p.Data[0].ID, Value: "x"},
		{ID: p.Data[1].ID, Value: "not a plate"},
	}})
	assert.Equal(t, []string{"Data at index 1: invalid licenseplate"}, messages(t, err))
}

func TestUpdateWithoutDataKeepsData(t *testing.T) {
	svc, repo := fixture()
	ctx := context.Background()
	p, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	kvk := "12345678"
	out, err := svc.Update(ctx, p.ID, UpdateInput{KVK: &kvk})
	require.NoError(t, err)
	assert.Nil(t, repo.changes)
	assert.Equal(t, "12345678", out.KVK)
	assert.Len(t, out.Data, 2)

	empty := ""
	_, err = svc.Update(ctx, p.ID, UpdateInput{BSN: &empty, KVK: &empty})
	assert.ErrorIs(t, err, domain.ErrOwnerRequired)
}

func TestGetFormatsData(t *testing.T) {
	svc, _ := fixture()
	ctx := context.Background()
	in := validInput()
	in.Data = append(in.Data, DataInput{FieldID: "f-count", Value: "3.5"})
	p, err := svc.Create(ctx, in)
	require.NoError(t, err)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.5, got.Data[2].Formatted)
	assert.Equal(t, "anything", got.Data[0].Formatted)

	_, err = svc.Get(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
