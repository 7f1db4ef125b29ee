package storage

import (
	"blog-server/internal/config"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("invalid blob key")

// BlobStore 保存上传的图片文件。key 形如 "posts/<uuid>.png"，只使用 '/' 作为分隔符。
// Delete 对不存在的 key 返回 nil。
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]BlobInfo, error)
	URL(key string) string
}

type BlobInfo struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// NewKey 在命名空间下生成唯一 key，ext 需包含前导点。
func NewKey(namespace, ext string) string {
	return namespace + "/" + uuid.New().String() + strings.ToLower(ext)
}

// ValidateKey 拒绝空 key、绝对路径、反斜杠与 ".." 片段。
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

// New 根据配置创建 BlobStore。
func New(ctx context.Context, cfg config.Config) (BlobStore, error) {
	switch cfg.Storage.Driver {
	case "s3":
		store, err := NewS3Store(ctx, cfg.Storage.S3)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "local", "":
		store, err := NewLocalStore(cfg.Upload.Path, cfg.Upload.URLPrefix)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}
