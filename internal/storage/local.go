package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	cmstorage "github.com/chartmuseum/storage"
)

// LocalStorage keeps objects under a directory on disk.
type LocalStorage struct {
	backend *cmstorage.LocalFilesystemBackend
}

func NewLocal(dir string) (*LocalStorage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("local storage dir must be provided")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
	}
	return &LocalStorage{backend: cmstorage.NewLocalFilesystemBackend(dir)}, nil
}

func (s *LocalStorage) PutObject(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.backend.PutObject(key, data); err != nil {
		return fmt.Errorf("local put %s: %w", key, err)
	}
	return nil
}

func (s *LocalStorage) GetObject(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	object, err := s.backend.GetObject(key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("local get %s: %w", key, err)
	}
	return object.Content, nil
}

// ListObjects returns the objects directly under prefix.
func (s *LocalStorage) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	objects, err := s.backend.ListObjects(prefix)
	if err != nil {
		return nil, fmt.Errorf("local list %s: %w", prefix, err)
	}
	results := make([]ObjectInfo, 0, len(objects))
	for _, object := range objects {
		results = append(results, ObjectInfo{
			Key:          path.Join(prefix, object.Path),
			Size:         int64(len(object.Content)),
			LastModified: object.LastModified,
		})
	}
	return results, nil
}

var _ ObjectStorage = (*LocalStorage)(nil)
