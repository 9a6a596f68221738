// Package attachment stores the files attached to product types.
package attachment

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"open-producten/internal/domain"
	"open-producten/internal/metrics"
	attachmentrepo "open-producten/internal/repository/attachment"
)

// MaxSize bounds an uploaded file.
const MaxSize = 10 << 20

// ProductTypes is the product type lookup the service needs.
type ProductTypes interface {
	Get(ctx context.Context, id string) (*domain.ProductType, error)
}

type Service struct {
	repo    attachmentrepo.Repository
	types   ProductTypes
	metrics *metrics.Metrics
}

func New(repo attachmentrepo.Repository, types ProductTypes, m *metrics.Metrics) *Service {
	return &Service{repo: repo, types: types, metrics: m}
}

func (s *Service) List(ctx context.Context, productTypeID string) ([]domain.File, error) {
	if _, err := s.types.Get(ctx, productTypeID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, productTypeID)
}

// Get returns a file of productTypeID with its content. A file of another
// product type is reported as not found.
func (s *Service) Get(ctx context.Context, productTypeID, id string) (*domain.File, error) {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.ProductTypeID != productTypeID {
		return nil, domain.ErrNotFound
	}
	return f, nil
}

// Upload stores content under name. The content type is sniffed when the
// client did not send one.
func (s *Service) Upload(ctx context.Context, productTypeID, name, contentType string, content []byte) (*domain.File, error) {
	if _, err := s.types.Get(ctx, productTypeID); err != nil {
		return nil, err
	}
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	switch {
	case name == "" || name == "." || name == "/":
		return nil, s.fail(domain.OnField("file", domain.Invalid("The submitted file has no name.")))
	case len(content) == 0:
		return nil, s.fail(domain.OnField("file", domain.Invalid("The submitted file is empty.")))
	case len(content) > MaxSize:
		return nil, s.fail(domain.OnField("file", domain.Invalid("Ensure the file is at most %d bytes.", MaxSize)))
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(content)
	}
	out, err := s.repo.Create(ctx, domain.File{ProductTypeID: productTypeID, Name: name, ContentType: contentType, Content: content})
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, productTypeID, id string) error {
	if _, err := s.Get(ctx, productTypeID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) fail(err error) error {
	s.metrics.ObserveError("attachment.upload", err)
	return err
}
