package service

import (
	"blog-server/internal/repository"
	"blog-server/internal/storage"
	"sync"
)

// AppService 聚合各业务流程，共享记录存储与文件存储。
type AppService struct {
	repos         *repository.Repositories
	blobs         storage.BlobStore
	settingsCache sync.Map
	userCache     sync.Map
}

func NewAppService(repos *repository.Repositories, blobs storage.BlobStore) *AppService {
	return &AppService{repos: repos, blobs: blobs}
}

func (s *AppService) Blobs() storage.BlobStore {
	return s.blobs
}

// normalizePagination 归一化分页参数，确保页码与页大小有最小值。
func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
