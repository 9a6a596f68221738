package tag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-producten/internal/domain"
	"open-producten/internal/metrics"
)

type stubRepo struct {
	types map[string]domain.TagType
	tags  map[string]domain.Tag
}

func (s *stubRepo) ListTypes(context.Context) ([]domain.TagType, error) { return nil, nil }

func (s *stubRepo) GetType(_ context.Context, id string) (*domain.TagType, error) {
	t, ok := s.types[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (s *stubRepo) CreateType(_ context.Context, t domain.TagType) (*domain.TagType, error) {
	for _, existing := range s.types {
		if existing.Name == t.Name {
			return nil, domain.ErrConflict
		}
	}
	t.ID = t.Name
	s.types[t.ID] = t
	return &t, nil
}

func (s *stubRepo) UpdateType(_ context.Context, t domain.TagType) (*domain.TagType, error) {
	s.types[t.ID] = t
	return &t, nil
}

func (s *stubRepo) DeleteType(_ context.Context, id string) error {
	delete(s.types, id)
	return nil
}

func (s *stubRepo) List(context.Context) ([]domain.Tag, error) { return nil, nil }

func (s *stubRepo) Get(_ context.Context, id string) (*domain.Tag, error) {
	t, ok := s.tags[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (s *stubRepo) Create(_ context.Context, t domain.Tag) (*domain.Tag, error) {
	t.ID = "tag-" + t.Name
	s.tags[t.ID] = t
	return &t, nil
}

func (s *stubRepo) Update(_ context.Context, t domain.Tag) (*domain.Tag, error) {
	s.tags[t.ID] = t
	return &t, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	delete(s.tags, id)
	return nil
}

func newService() *Service {
	return New(&stubRepo{types: map[string]domain.TagType{}, tags: map[string]domain.Tag{}}, metrics.Nop())
}

func TestTagTypeNamesAreUnique(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.CreateType(ctx, domain.TagType{Name: "doelgroep"})
	require.NoError(t, err)
	_, err = svc.CreateType(ctx, domain.TagType{Name: "doelgroep"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.CreateType(ctx, domain.TagType{Name: "  "})
	assert.EqualError(t, err, "name: This field may not be blank.")
}

func TestCreateTagChecksType(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	tt, err := svc.CreateType(ctx, domain.TagType{Name: "doelgroep"})
	require.NoError(t, err)

	missing := "nope"
	_, err = svc.Create(ctx, domain.Tag{Name: "ouderen", TypeID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	tag, err := svc.Create(ctx, domain.Tag{Name: "ouderen", TypeID: &tt.ID})
	require.NoError(t, err)
	assert.Equal(t, tt.ID, *tag.TypeID)

	tag, err = svc.Create(ctx, domain.Tag{Name: "zonder type"})
	require.NoError(t, err)
	assert.Nil(t, tag.TypeID)
}
