//go:build wireinject
// +build wireinject

package di

import (
	"blog-server/internal/handler"
	adminhandler "blog-server/internal/handler/admin"
	"blog-server/internal/repository"
	"blog-server/internal/router"
	"blog-server/internal/service"
	"blog-server/internal/storage"

	"github.com/google/wire"
	"gorm.io/gorm"
)

func InitializeApplication(gormDB *gorm.DB, blobs storage.BlobStore) (*Application, error) {
	wire.Build(
		repository.NewUserRepository,
		repository.NewPostRepository,
		repository.NewSettingRepository,
		repository.NewSystemRepository,
		repository.NewRepositories,
		service.NewAppService,
		provideJanitorConfig,
		provideJanitor,
		handler.NewHandler,
		adminhandler.NewHandler,
		router.NewRouter,
		NewApplication,
	)
	return nil, nil
}
