package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blog-server/internal/config"
	"blog-server/internal/consts"
	"blog-server/internal/model"
	"blog-server/internal/repository"
	"blog-server/internal/service"
	"blog-server/internal/storage"
	"blog-server/internal/testutils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 测试内容：为 main 包测试初始化配置环境并在结束时清理。
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	tmpDir, err := os.MkdirTemp("", "blog-server-main-config-*")
	if err != nil {
		panic(err)
	}

	envs := []testutils.SavedEnv{
		testutils.SetEnv("BLOG_SERVER_MODE", "debug"),
		testutils.SetEnv("BLOG_JWT_SECRET", "test_secret"),
		testutils.SetEnv("BLOG_UPLOAD_URL_PREFIX", "/uploads/"),
		testutils.SetEnv("BLOG_REDIS_ENABLED", "false"),
	}
	config.InitConfig(tmpDir)

	code := m.Run()

	testutils.RestoreEnv(envs)
	_ = os.RemoveAll(tmpDir)
	os.Exit(code)
}

func buildTestAppService(t *testing.T, blobs storage.BlobStore) (*service.AppService, *gorm.DB) {
	t.Helper()
	gdb := testutils.SetupDB(t)
	appService := service.NewAppService(repository.NewRepositories(
		repository.NewUserRepository(gdb),
		repository.NewPostRepository(gdb),
		repository.NewSettingRepository(gdb),
		repository.NewSystemRepository(gdb),
	), blobs)
	return appService, gdb
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("切换目录失败: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
}

// 测试内容：验证 splitTrustedProxyList 能正确拆分代理列表。
func TestSplitTrustedProxyList(t *testing.T) {
	got := splitTrustedProxyList(" 1.1.1.1,2.2.2.2; 3.3.3.3 \n4.4.4.4\t")
	if len(got) != 4 {
		t.Fatalf("期望 4 parts，实际为 %v", got)
	}
	if len(splitTrustedProxyList("")) != 0 {
		t.Fatalf("期望空串拆分为空列表")
	}
}

// 测试内容：验证 exportAPI 会写出有效的 routes.json 路由列表。
func TestExportAPI_WritesRoutesJSON(t *testing.T) {
	chdir(t, t.TempDir())

	r := gin.New()
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	exportAPI(r)

	b, err := os.ReadFile("routes.json")
	if err != nil {
		t.Fatalf("期望 routes.json: %v", err)
	}
	var routes []map[string]any
	if err := json.Unmarshal(b, &routes); err != nil {
		t.Fatalf("JSON 无效: %v", err)
	}
	if len(routes) != 1 || routes[0]["path"] != "/x" {
		t.Fatalf("非预期路由列表: %v", routes)
	}
}

// 测试内容：验证 NoRoute 对 API 与上传路径返回 JSON 404。
func TestGetNoRouteHandler(t *testing.T) {
	r := gin.New()
	r.NoRoute(getNoRouteHandler())

	for _, path := range []string{"/api/nope", "/uploads/posts/nope.png", "/anything"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s 期望 404，实际为 %d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "error") {
			t.Fatalf("%s 期望 JSON 错误体，实际为 %s", path, w.Body.String())
		}
	}
}

// 测试内容：验证 trusted_proxies 设置对信任代理的影响：空值禁用、有效列表生效、无效列表回退。
func TestApplyTrustedProxies_UsesSettingValue(t *testing.T) {
	appService, gdb := buildTestAppService(t, nil)

	getClientIP := func(r *gin.Engine) string {
		r.GET("/ip", func(c *gin.Context) {
			c.String(http.StatusOK, c.ClientIP())
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ip", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", "203.0.113.10, 10.0.0.1")
		r.ServeHTTP(w, req)
		return strings.TrimSpace(w.Body.String())
	}

	cases := []struct {
		value string
		want  string
	}{
		{"", "10.0.0.1"},
		{"127.0.0.1,10.0.0.0/8", "203.0.113.10"},
		{"not-a-cidr", "10.0.0.1"},
	}
	for _, tc := range cases {
		if err := gdb.Save(&model.Setting{Key: consts.ConfigTrustedProxies, Value: tc.value, Category: "security"}).Error; err != nil {
			t.Fatalf("保存 trusted_proxies 失败: %v", err)
		}
		appService.ClearCache()

		r := gin.New()
		applyTrustedProxies(r, appService)
		if got := getClientIP(r); got != tc.want {
			t.Fatalf("trusted_proxies=%q 期望 ClientIP 为 %q，实际为 %q", tc.value, tc.want, got)
		}
	}
}

// 测试内容：验证本地存储时上传文件可通过 URL 前缀访问并带缓存头。
func TestSetupStaticFiles_ServesLocalUploads(t *testing.T) {
	local, err := storage.NewLocalStore(t.TempDir(), "/uploads/")
	if err != nil {
		t.Fatalf("创建本地存储失败: %v", err)
	}
	appService, _ := buildTestAppService(t, local)
	if err := appService.InitializeSettings(); err != nil {
		t.Fatalf("初始化配置失败: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(local.Root(), "posts"), 0755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	if err := os.WriteFile(filepath.Join(local.Root(), "posts", "a.png"), testutils.MinimalPNG(), 0644); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}

	r := gin.New()
	setupStaticFiles(r, appService, local)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/posts/a.png", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}
	if w.Header().Get("Cache-Control") == "" {
		t.Fatalf("期望设置 Cache-Control")
	}
}

// 测试内容：验证上传目录不能是工作目录本身或工作目录下的非白名单子目录。
func TestCheckSecurePath(t *testing.T) {
	chdir(t, t.TempDir())

	if err := checkSecurePath("."); err == nil {
		t.Fatalf("期望根目录被拒绝")
	}
	if err := checkSecurePath("internal"); err == nil {
		t.Fatalf("期望非白名单目录被拒绝")
	}
	if err := checkSecurePath("uploads/blog"); err != nil {
		t.Fatalf("期望 uploads 子目录被允许: %v", err)
	}
	if err := checkSecurePath(filepath.Join(os.TempDir(), "elsewhere")); err != nil {
		t.Fatalf("期望工作目录之外的路径被允许: %v", err)
	}
}

// 测试内容：验证欢迎信息打印函数在测试配置下可执行。
func TestPrintWelcomeMessage(t *testing.T) {
	printWelcomeMessage()
}
