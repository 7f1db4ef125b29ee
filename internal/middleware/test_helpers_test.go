package middleware

import (
	"testing"

	"blog-server/internal/model"
	"blog-server/internal/repository"
	"blog-server/internal/service"
	"blog-server/internal/storage"
	"blog-server/internal/testutils"

	"gorm.io/gorm"
)

func setupTestService(t *testing.T) (*service.AppService, *gorm.DB) {
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
	return appService, gdb
}

func setSetting(t *testing.T, appService *service.AppService, gdb *gorm.DB, key, value string) {
	t.Helper()
	if err := gdb.Model(&model.Setting{}).Where("key = ?", key).Update("value", value).Error; err != nil {
		t.Fatalf("更新配置失败: %v", err)
	}
	appService.ClearCache()
}
