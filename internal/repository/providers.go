package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrAlreadyLiked             = errors.New("post already liked by user")
	ErrSystemAlreadyInitialized = errors.New("system already initialized")
)

type Repositories struct {
	User    UserStore
	Post    PostStore
	Setting SettingStore
	System  SystemStore
}

func NewUserRepository(db *gorm.DB) UserStore {
	return &UserRepository{db: db}
}

func NewPostRepository(db *gorm.DB) PostStore {
	return &PostRepository{db: db}
}

func NewSettingRepository(db *gorm.DB) SettingStore {
	return &SettingRepository{db: db}
}

func NewSystemRepository(db *gorm.DB) SystemStore {
	return &SystemRepository{db: db}
}

func NewRepositories(user UserStore, post PostStore, setting SettingStore, system SystemStore) *Repositories {
	return &Repositories{
		User:    user,
		Post:    post,
		Setting: setting,
		System:  system,
	}
}
