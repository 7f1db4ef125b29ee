package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"blog-server/internal/config"
	"blog-server/internal/consts"
	"blog-server/internal/janitor"
	"blog-server/internal/model"
	"blog-server/internal/repository"
	"blog-server/internal/service"
	"blog-server/internal/storage"
	"blog-server/internal/testutils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type testEnv struct {
	handler *Handler
	db      *gorm.DB
	blobs   *storage.LocalStore
}

func setupTestHandler(t *testing.T) testEnv {
	t.Helper()

	gdb := testutils.SetupDB(t)
	blobs, err := storage.NewLocalStore(t.TempDir(), "/uploads/")
	if err != nil {
		t.Fatalf("创建本地存储失败: %v", err)
	}
	repos := repository.NewRepositories(
		repository.NewUserRepository(gdb),
		repository.NewPostRepository(gdb),
		repository.NewSettingRepository(gdb),
		repository.NewSystemRepository(gdb),
	)
	appService := service.NewAppService(repos, blobs)
	if err := appService.InitializeSettings(); err != nil {
		t.Fatalf("初始化配置失败: %v", err)
	}
	j := janitor.New(blobs, repos, config.JanitorConfig{GraceMinutes: 0})
	return testEnv{handler: NewHandler(appService, j), db: gdb, blobs: blobs}
}

func createTestUser(t *testing.T, gdb *gorm.DB, username string) model.User {
	t.Helper()
	u := model.User{Username: username, Password: "x", Role: consts.RoleStandard}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}

func createTestPost(t *testing.T, gdb *gorm.DB, userID uint, imageKey string) model.Post {
	t.Helper()
	p := model.Post{Title: "title", Content: "content", UserID: userID, Image: model.BlobImage(imageKey)}
	if err := gdb.Create(&p).Error; err != nil {
		t.Fatalf("创建文章失败: %v", err)
	}
	return p
}

func putBlob(t *testing.T, blobs storage.BlobStore, key string) {
	t.Helper()
	data := testutils.MinimalPNG()
	if err := blobs.Put(t.Context(), key, bytes.NewReader(data), int64(len(data)), "image/png"); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("解析响应失败: %v body=%s", err, w.Body.String())
	}
}
