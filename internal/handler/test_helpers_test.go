package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"blog-server/internal/consts"
	"blog-server/internal/model"
	"blog-server/internal/repository"
	"blog-server/internal/service"
	"blog-server/internal/storage"
	"blog-server/internal/testutils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupTestHandler(t *testing.T) (*Handler, *gorm.DB) {
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
	return NewHandler(appService), gdb
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

// asUser 模拟 JWTAuth 写入上下文
func asUser(id uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("id", id)
		c.Next()
	}
}

func newMultipartRequest(t *testing.T, method, path string, fields map[string]string, fileName string, fileData []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("写入表单字段失败: %v", err)
		}
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("创建表单文件失败: %v", err)
		}
		_, _ = part.Write(fileData)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("关闭 multipart writer 失败: %v", err)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newJSONRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("序列化请求失败: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("解析响应失败: %v body=%s", err, w.Body.String())
	}
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
