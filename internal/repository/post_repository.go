package repository

import "blog-server/internal/model"

type PostStore interface {
	Create(post *model.Post) error
	FindByID(id uint) (*model.Post, error)
	FindByIDWithLikes(id uint) (*model.Post, error)
	FindByIDAndAuthor(id uint, userID uint) (*model.Post, error)
	ListAll() ([]model.Post, error)
	ListByAuthor(userID uint) ([]model.Post, error)
	AdminListPosts(keyword string, offset int, limit int) ([]model.Post, int64, error)
	UpdateByID(id uint, updates map[string]interface{}) error
	// AddLike 插入点赞并将 likes_count 加一，返回最新计数；重复点赞返回 ErrAlreadyLiked。
	AddLike(postID uint, userID uint) (int, error)
	DeletePostCascade(postID uint) error
	ListImageKeys() ([]string, error)
	CountAll() (int64, error)
}
