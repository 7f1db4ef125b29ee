package storage

import (
	"blog-server/internal/utils"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore 将 blob 保存在本地目录下，所有路径都经过符号链接穿透检查。
type LocalStore struct {
	root      string
	urlPrefix string
}

func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("local storage root is empty")
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	// 先校验根目录节点本身，避免根目录直接是符号链接。
	if err := utils.EnsurePathNotSymlink(rootAbs); err != nil {
		return nil, fmt.Errorf("storage root symlink risk: %w", err)
	}
	if err := os.MkdirAll(rootAbs, 0755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = "/uploads/"
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &LocalStore{root: rootAbs, urlPrefix: urlPrefix}, nil
}

func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) resolve(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return utils.SecureJoin(s.root, filepath.FromSlash(key))
}

func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create blob dir: %w", err)
	}
	// 目录创建后再检查一次链路，防止并发替换为符号链接。
	if err := utils.EnsureNoSymlinkBetween(s.root, fullPath); err != nil {
		return err
	}

	out, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create blob file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		_ = os.Remove(fullPath)
		return fmt.Errorf("write blob file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(fullPath)
		return fmt.Errorf("close blob file: %w", err)
	}
	return nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob file: %w", err)
	}
	return nil
}

func (s *LocalStore) List(ctx context.Context, prefix string) ([]BlobInfo, error) {
	dir, err := utils.SecureJoin(s.root, filepath.FromSlash(strings.Trim(prefix, "/")))
	if err != nil {
		return nil, err
	}

	var blobs []BlobInfo
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.Type()&fs.ModeSymlink != 0 {
			log.Printf("Warning: skip symlink in blob storage: %s\n", path)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		blobs = append(blobs, BlobInfo{
			Key:     filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return blobs, nil
}

func (s *LocalStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.urlPrefix + key
}
