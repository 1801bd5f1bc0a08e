package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/andresuchdata/stockdash/internal/config"
)

// ErrNotFound is returned by GetObject for a missing key.
var ErrNotFound = errors.New("object not found")

// ObjectInfo represents metadata for a stored object.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ObjectStorage captures the minimal S3-compatible operations the archive needs.
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, data []byte) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// New picks the backend named by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "local":
		return NewLocal(cfg.LocalDir)
	case "s3", "minio":
		return NewS3(ctx, S3Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			UseSSL:    cfg.UseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// UploadKey is uploads/<COUNTRY>/<timestamp>_<name>.
func UploadKey(country, name string, at time.Time) string {
	return archiveKey("uploads", country, name, at)
}

// ExportKey is exports/<COUNTRY>/<timestamp>_<name>.
func ExportKey(country, name string, at time.Time) string {
	return archiveKey("exports", country, name, at)
}

func archiveKey(kind, country, name string, at time.Time) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return path.Join(kind, strings.ToUpper(strings.TrimSpace(country)), at.UTC().Format("20060102T150405Z")+"_"+name)
}
