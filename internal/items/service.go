package items

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/bits-lost-found/go-backend/internal/storage"
)

// allowedImageTypes maps accepted upload content types to the extension used
// when the original filename has none.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

type Service struct {
	repo  *Repo
	blobs storage.BlobStore
	cache *ListingCache
}

// NewService wires the item operations. cache may be nil, in which case every
// listing hits the database.
func NewService(repo *Repo, blobs storage.BlobStore, cache *ListingCache) *Service {
	return &Service{repo: repo, blobs: blobs, cache: cache}
}

// Report validates and stores a found-item report. The image (if any) goes to
// the blob store first; the contact refresh and item insert then commit
// atomically. A failed report leaves no item row behind.
func (s *Service) Report(ctx context.Context, in ReportInput) (int64, error) {
	imageURL := ""
	if in.Image != nil {
		ext, ok := allowedImageTypes[strings.ToLower(in.Image.ContentType)]
		if !ok {
			return 0, ErrUnsupportedImage
		}
		if orig := filepath.Ext(in.Image.Filename); orig != "" {
			ext = strings.ToLower(orig)
		}

		name := uuid.New().String() + ext
		url, err := s.blobs.Save(ctx, name, in.Image.ContentType, in.Image.Data)
		if err != nil {
			return 0, fmt.Errorf("store image: %w", err)
		}
		imageURL = url
	}

	id, err := s.repo.Insert(ctx, in, imageURL)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return id, nil
}

// List returns the FOUND items matching the filters. The unfiltered listing
// is served from the cache when one is configured.
func (s *Service) List(ctx context.Context, f ListFilters) ([]ItemView, error) {
	cacheable := f.IsZero() && s.cache != nil
	if cacheable {
		if views, ok := s.cache.Get(ctx); ok {
			return views, nil
		}
	}

	views, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.cache.Set(ctx, views)
	}
	return views, nil
}
