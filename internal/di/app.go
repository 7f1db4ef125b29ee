package di

import (
	"blog-server/internal/config"
	"blog-server/internal/janitor"
	"blog-server/internal/repository"
	"blog-server/internal/router"
	"blog-server/internal/service"
	"blog-server/internal/storage"
)

type Application struct {
	Router  *router.Router
	Service *service.AppService
	Janitor *janitor.Janitor
}

func NewApplication(r *router.Router, s *service.AppService, j *janitor.Janitor) *Application {
	return &Application{
		Router:  r,
		Service: s,
		Janitor: j,
	}
}

func provideJanitorConfig() config.JanitorConfig {
	return config.Get().Janitor
}

func provideJanitor(blobs storage.BlobStore, repos *repository.Repositories, cfg config.JanitorConfig) *janitor.Janitor {
	return janitor.New(blobs, repos, cfg)
}
