package question

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-producten/internal/domain"
	"open-producten/internal/metrics"
	questionrepo "open-producten/internal/repository/question"
)

type stubRepo struct {
	rows map[string]domain.Question
}

func (s *stubRepo) List(_ context.Context, owner questionrepo.Owner) ([]domain.Question, error) {
	var out []domain.Question
	for _, q := range s.rows {
		if deref(q.CategoryID) == owner.CategoryID && deref(q.ProductTypeID) == owner.ProductTypeID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *stubRepo) Get(_ context.Context, id string) (*domain.Question, error) {
	q, ok := s.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &q, nil
}

func (s *stubRepo) Create(_ context.Context, q domain.Question) (*domain.Question, error) {
	q.ID = "q1"
	s.rows[q.ID] = q
	return &q, nil
}

func (s *stubRepo) Update(_ context.Context, q domain.Question) (*domain.Question, error) {
	s.rows[q.ID] = q
	return &q, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	delete(s.rows, id)
	return nil
}

type stubOwners struct{}

func (stubOwners) CategoryExists(_ context.Context, id string) error {
	if id != "cat" {
		return domain.ErrNotFound
	}
	return nil
}

func (stubOwners) ProductTypeExists(_ context.Context, id string) error {
	if id != "pt" {
		return domain.ErrNotFound
	}
	return nil
}

func ptr(s string) *string { return &s }

func newService() *Service {
	return New(&stubRepo{rows: map[string]domain.Question{}}, stubOwners{}, metrics.Nop())
}

func TestCreateNeedsExactlyOneOwner(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Question{Question: "Wat kost het?", Answer: "Niets."})
	assert.EqualError(t, err, "nonFieldErrors: Set either a category or a product type.")

	_, err = svc.Create(ctx, domain.Question{CategoryID: ptr("cat"), ProductTypeID: ptr("pt"), Question: "q", Answer: "a"})
	assert.EqualError(t, err, "nonFieldErrors: Set either a category or a product type, not both.")

	_, err = svc.Create(ctx, domain.Question{CategoryID: ptr("other"), Question: "q", Answer: "a"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	q, err := svc.Create(ctx, domain.Question{ProductTypeID: ptr("pt"), Question: "q", Answer: "a"})
	require.NoError(t, err)

	list, err := svc.List(ctx, questionrepo.Owner{ProductTypeID: "pt"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Question{*q}, list)
}

func TestQuestionLength(t *testing.T) {
	svc := newService()
	_, err := svc.Create(context.Background(), domain.Question{
		CategoryID: ptr("cat"),
		Question:   strings.Repeat("x", maxQuestionLen+1),
	})
	var batch *domain.BatchError
	require.ErrorAs(t, err, &batch)
	assert.Equal(t, "question", batch.Field)
	assert.Contains(t, err.Error(), "answer: This field may not be blank.")
}

func TestUpdateKeepsOwner(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	q, err := svc.Create(ctx, domain.Question{CategoryID: ptr("cat"), Question: "q", Answer: "a"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, q.ID, nil, ptr("b"))
	require.NoError(t, err)
	assert.Equal(t, "q", got.Question)
	assert.Equal(t, "b", got.Answer)
	assert.Equal(t, "cat", deref(got.CategoryID))

	_, err = svc.Update(ctx, q.ID, ptr(""), nil)
	assert.Error(t, err)
}
