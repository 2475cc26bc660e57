package blob

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
)

// Store persists objects and exposes them under a public URL.
type Store interface {
	// Put writes data under key and returns the URL clients fetch it from.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	// Delete removes the object behind url. URLs the store does not own are
	// ignored.
	Delete(ctx context.Context, url string) error
}

// NewStore builds the store selected by cfg.Driver.
func NewStore(ctx context.Context, cfg config.Storage) (Store, error) {
	switch cfg.Driver {
	case config.StorageDriverLocal:
		return NewLocalStore(cfg.LocalDir, cfg.PublicPath)
	case config.StorageDriverS3:
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// ImageStore validates and normalizes product images before storing them.
type ImageStore struct {
	store    Store
	maxWidth uint
	newKey   func(ext string) string
}

func NewImageStore(store Store, maxWidth uint) *ImageStore {
	return &ImageStore{
		store:    store,
		maxWidth: maxWidth,
		newKey: func(ext string) string {
			return uuid.Must(uuid.NewV7()).String() + ext
		},
	}
}

// Save stores an uploaded image and returns its public URL.
func (s *ImageStore) Save(ctx context.Context, data []byte) (string, error) {
	img, err := PrepareImage(data, s.maxWidth)
	if err != nil {
		return "", err
	}

	url, err := s.store.Put(ctx, s.newKey(img.Ext), img.ContentType, img.Data)
	if err != nil {
		return "", fmt.Errorf("put image: %w", err)
	}

	return url, nil
}

// Remove deletes a previously saved image. External URLs are left alone.
func (s *ImageStore) Remove(ctx context.Context, url string) error {
	if err := s.store.Delete(ctx, url); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}
