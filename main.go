package main

import (
	"blog-server/internal/config"
	"blog-server/internal/consts"
	"blog-server/internal/db"
	"blog-server/internal/di"
	"blog-server/internal/middleware"
	"blog-server/internal/service"
	"blog-server/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	configDir := flag.String("config", "config", "配置文件目录")
	exportRoutes := flag.Bool("export", false, "导出路由到 routes.json 并退出")
	flag.Parse()

	config.InitConfig(*configDir)
	db.InitDB()

	cfg := config.Get()
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "local" {
		if err := checkSecurePath(cfg.Upload.Path); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}

	blobs, err := storage.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ 初始化文件存储失败: %v", err)
	}
	log.Printf("✅ 文件存储(%s)初始化成功", storageDriverName(cfg))

	app, err := di.InitializeApplication(db.DB, blobs)
	if err != nil {
		log.Fatalf("❌ 初始化应用失败: %v", err)
	}
	if err := app.Service.InitializeSettings(); err != nil {
		log.Fatalf("❌ 初始化系统设置失败: %v", err)
	}

	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Logger(), middleware.Recovery(), middleware.CORS(cfg.CORS))
	applyTrustedProxies(r, app.Service)
	app.Router.Init(r)
	setupStaticFiles(r, app.Service, blobs)
	r.NoRoute(getNoRouteHandler())

	// 导出模式
	if *exportRoutes {
		exportAPI(r)
		return
	}

	printWelcomeMessage()

	if cfg.Janitor.Enabled {
		if err := app.Janitor.Start(); err != nil {
			log.Printf("⚠️ 孤立文件清理任务未启动: %v", err)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("🚀 服务启动成功，运行在 :%s\n", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ 服务启动失败: %s\n", err)
		}
	}()

	// 等待中断信号关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ 服务强制关闭: %v", err)
	}
	app.Janitor.Stop()
	if err := service.CloseRedisClient(); err != nil {
		log.Printf("⚠️ %v", err)
	}
	log.Println("✅ 服务已退出")
}

func storageDriverName(cfg config.Config) string {
	if cfg.Storage.Driver == "" {
		return "local"
	}
	return cfg.Storage.Driver
}

// setupStaticFiles 本地存储时挂载上传目录，S3 由公开地址直接访问
func setupStaticFiles(r *gin.Engine, appService *service.AppService, blobs storage.BlobStore) {
	local, ok := blobs.(*storage.LocalStore)
	if !ok {
		return
	}
	r.Group(config.Get().Upload.URLPrefix, middleware.StaticCacheMiddleware(appService)).
		StaticFS("", gin.Dir(local.Root(), false))
}

func getNoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		switch {
		case strings.HasPrefix(path, "/api"):
			c.JSON(http.StatusNotFound, gin.H{"error": "API not found"})
		case strings.HasPrefix(path, config.Get().Upload.URLPrefix):
			c.JSON(http.StatusNotFound, gin.H{"error": "Upload not found"})
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		}
	}
}

// applyTrustedProxies 按 trusted_proxies 设置配置可信代理，非法值回退为不信任
func applyTrustedProxies(r *gin.Engine, appService *service.AppService) {
	proxies := splitTrustedProxyList(appService.GetString(consts.ConfigTrustedProxies))
	if len(proxies) == 0 {
		_ = r.SetTrustedProxies(nil)
		return
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		log.Printf("⚠️ trusted_proxies 配置无效，已禁用代理信任: %v", err)
		_ = r.SetTrustedProxies(nil)
	}
}

func splitTrustedProxyList(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
}

func printWelcomeMessage() {
	cfg := config.Get()
	fmt.Println()
	fmt.Println(" ┌───────────────────────────────────────────────────────┐")
	fmt.Printf(" │   🚀  %s\n", consts.ApplicationName)
	fmt.Println(" ├───────────────────────────────────────────────────────┤")
	fmt.Printf(" │   📦  版本     : %s\n", consts.ApplicationVersion)
	fmt.Printf(" │   🗄️  数据库   : %s\n", cfg.Database.Type)
	fmt.Printf(" │   🖼️  文件存储 : %s\n", storageDriverName(cfg))
	fmt.Printf(" │   🔥  服务端口 : %s\n", cfg.Server.Port)
	fmt.Println(" └───────────────────────────────────────────────────────┘")
	fmt.Println()
}

func exportAPI(r *gin.Engine) {
	type RouteInfo struct {
		Method  string `json:"method"`
		Path    string `json:"path"`
		Handler string `json:"handler"`
	}

	var exportList []RouteInfo
	for _, route := range r.Routes() {
		exportList = append(exportList, RouteInfo{
			Method:  route.Method,
			Path:    route.Path,
			Handler: route.Handler,
		})
	}

	file, err := json.MarshalIndent(exportList, "", "  ")
	if err != nil {
		log.Printf("❌ 路由导出失败: %v", err)
		return
	}
	if err := os.WriteFile("routes.json", file, 0644); err != nil {
		log.Printf("❌ 路由导出失败: %v", err)
		return
	}
	log.Println("✅ 路由已成功导出到 routes.json")
}

// checkSecurePath 本地上传目录只能位于工作目录下的白名单子目录，或工作目录之外
func checkSecurePath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("路径解析失败: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("无法获取当前工作目录: %w", err)
	}

	if absPath == cwd {
		return fmt.Errorf("安全配置错误: 上传目录 '%s' 不能设置为项目根目录", path)
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}

	allowedDirs := []string{"uploads", "public", "static", "data", "tmp"}
	firstComponent := strings.Split(filepath.ToSlash(rel), "/")[0]
	for _, allowed := range allowedDirs {
		if strings.EqualFold(firstComponent, allowed) {
			return nil
		}
	}
	return fmt.Errorf("安全配置错误: 上传目录 '%s' 必须位于项目根目录下的安全子目录中 (如 %v)", path, allowedDirs)
}
