package repository

import (
	"blog-server/internal/consts"
	"blog-server/internal/model"
)

type UserStore interface {
	FindByID(id uint) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	Exists(id uint) (bool, error)
	Create(user *model.User) error
	UpdateUsernameByID(userID uint, username string) error
	UpdatePasswordByID(userID uint, hashedPassword string) error
	UpdateAvatarByID(userID uint, avatarKey string) error
	FieldExists(field consts.UserField, value string, excludeUserID *uint) (bool, error)
	ListAll() ([]model.User, error)
	AdminListUsers(keyword string, order string, offset int, limit int) ([]model.User, int64, error)
	ListAvatarKeys() ([]string, error)
	// DeleteUserCascade 在单个事务内删除账号、其文章、相关点赞，并修正被点赞文章的计数。
	DeleteUserCascade(userID uint) error
	CountAll() (int64, error)
}
