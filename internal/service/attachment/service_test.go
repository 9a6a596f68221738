package attachment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-producten/internal/domain"
	"open-producten/internal/metrics"
)

type stubTypes struct{}

func (stubTypes) Get(_ context.Context, id string) (*domain.ProductType, error) {
	if id != "pt-1" && id != "pt-2" {
		return nil, domain.ErrNotFound
	}
	return &domain.ProductType{ID: id}, nil
}

type stubRepo struct {
	files map[string]domain.File
}

func (s *stubRepo) List(_ context.Context, productTypeID string) ([]domain.File, error) {
	var out []domain.File
	for _, f := range s.files {
		if f.ProductTypeID == productTypeID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *stubRepo) Get(_ context.Context, id string) (*domain.File, error) {
	f, ok := s.files[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &f, nil
}

func (s *stubRepo) Create(_ context.Context, f domain.File) (*domain.File, error) {
	f.ID = "file-1"
	f.Size = int64(len(f.Content))
	s.files[f.ID] = f
	return &f, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	delete(s.files, id)
	return nil
}

func TestUploadSanitisesAndSniffs(t *testing.T) {
	repo := &stubRepo{files: map[string]domain.File{}}
	svc := New(repo, stubTypes{}, metrics.Nop())

	f, err := svc.Upload(context.Background(), "pt-1", `C:\Users\bob\brochure.pdf`, "", []byte("%PDF-1.7 rest"))
	require.NoError(t, err)
	assert.Equal(t, "brochure.pdf", f.Name)
	assert.Equal(t, "application/pdf", f.ContentType)
	assert.Equal(t, int64(13), f.Size)

	f, err = svc.Upload(context.Background(), "pt-1", "../../etc/form.txt", "text/plain", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "form.txt", f.Name)
	assert.Equal(t, "text/plain", f.ContentType)
}

func TestUploadRejects(t *testing.T) {
	svc := New(&stubRepo{files: map[string]domain.File{}}, stubTypes{}, metrics.Nop())
	ctx := context.Background()

	_, err := svc.Upload(ctx, "missing", "a.txt", "", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Upload(ctx, "pt-1", "a.txt", "", nil)
	var batch *domain.BatchError
	require.ErrorAs(t, err, &batch)
	assert.Equal(t, "file", batch.Field)

	_, err = svc.Upload(ctx, "pt-1", "big.bin", "", make([]byte, MaxSize+1))
	require.ErrorAs(t, err, &batch)
}

func TestFilesAreScopedToTheirProductType(t *testing.T) {
	repo := &stubRepo{files: map[string]domain.File{
		"f1": {ID: "f1", ProductTypeID: "pt-1", Name: "a.pdf"},
	}}
	svc := New(repo, stubTypes{}, metrics.Nop())
	ctx := context.Background()

	_, err := svc.Get(ctx, "pt-2", "f1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "pt-2", "f1"), domain.ErrNotFound)
	assert.Contains(t, repo.files, "f1")

	require.NoError(t, svc.Delete(ctx, "pt-1", "f1"))
	assert.NotContains(t, repo.files, "f1")
}
