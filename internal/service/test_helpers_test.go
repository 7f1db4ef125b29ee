package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"blog-server/internal/consts"
	"blog-server/internal/model"
	"blog-server/internal/repository"
	"blog-server/internal/storage"
	"blog-server/internal/testutils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// recordingBlobStore 包装 LocalStore，可注入删除失败并记录删除过的 key。
type recordingBlobStore struct {
	*storage.LocalStore
	mu        sync.Mutex
	deleted   []string
	deleteErr error
	putErr    error
}

func (r *recordingBlobStore) Put(ctx context.Context, key string, rd io.Reader, size int64, contentType string) error {
	if r.putErr != nil {
		return r.putErr
	}
	return r.LocalStore.Put(ctx, key, rd, size, contentType)
}

func (r *recordingBlobStore) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	r.deleted = append(r.deleted, key)
	r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	return r.LocalStore.Delete(ctx, key)
}

func (r *recordingBlobStore) deletedKeys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.deleted...)
}

func setupTestService(t *testing.T) (*AppService, *gorm.DB, *recordingBlobStore) {
	t.Helper()

	gdb := testutils.SetupDB(t)
	local, err := storage.NewLocalStore(t.TempDir(), "/uploads/")
	if err != nil {
		t.Fatalf("创建本地存储失败: %v", err)
	}
	blobs := &recordingBlobStore{LocalStore: local}

	repos := repository.NewRepositories(
		repository.NewUserRepository(gdb),
		repository.NewPostRepository(gdb),
		repository.NewSettingRepository(gdb),
		repository.NewSystemRepository(gdb),
	)
	svc := NewAppService(repos, blobs)
	if err := svc.InitializeSettings(); err != nil {
		t.Fatalf("初始化配置失败: %v", err)
	}
	return svc, gdb, blobs
}

func setSetting(t *testing.T, svc *AppService, gdb *gorm.DB, key, value string) {
	t.Helper()
	if err := gdb.Model(&model.Setting{}).Where("key = ?", key).Update("value", value).Error; err != nil {
		t.Fatalf("更新配置失败: %v", err)
	}
	svc.ClearCache()
}

// newFileHeader 通过 multipart 编解码构造一个真实的上传文件头。
func newFileHeader(t *testing.T, filename string, data []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("创建表单文件失败: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("写入表单文件失败: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("关闭 multipart writer 失败: %v", err)
	}

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("解析表单失败: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func pngHeader(t *testing.T) *multipart.FileHeader {
	return newFileHeader(t, "a.png", testutils.MinimalPNG())
}

func createTestUser(t *testing.T, gdb *gorm.DB, username, password string) model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	u := model.User{Username: username, Password: string(hashed), Role: consts.RoleStandard}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}

func blobExists(t *testing.T, blobs *recordingBlobStore, key string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(blobs.Root(), filepath.FromSlash(key)))
	if err == nil {
		return true
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("检查文件失败: %v", err)
	}
	return false
}

func assertServiceErrorCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	se, ok := AsServiceError(err)
	if !ok {
		t.Fatalf("期望 ServiceError(%s)，实际为 %v", code, err)
	}
	if se.Code != code {
		t.Fatalf("期望错误码 %s，实际为 %s (%s)", code, se.Code, se.Message)
	}
}
