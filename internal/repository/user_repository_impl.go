package repository

import (
	"blog-server/internal/consts"
	"blog-server/internal/model"
	"strings"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) UpdateUsernameByID(userID uint, username string) error {
	return r.updateColumn(userID, "username", username)
}

func (r *UserRepository) UpdatePasswordByID(userID uint, hashedPassword string) error {
	return r.updateColumn(userID, "password", hashedPassword)
}

func (r *UserRepository) UpdateAvatarByID(userID uint, avatarKey string) error {
	return r.updateColumn(userID, "avatar", avatarKey)
}

func (r *UserRepository) updateColumn(userID uint, column string, value interface{}) error {
	result := r.db.Model(&model.User{}).Where("id = ?", userID).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) FieldExists(field consts.UserField, value string, excludeUserID *uint) (bool, error) {
	query := r.db.Model(&model.User{})
	if excludeUserID != nil {
		query = query.Where("id != ?", *excludeUserID)
	}

	var count int64
	if err := query.Where(string(field)+" = ?", value).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) ListAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) AdminListUsers(
	keyword string,
	order string,
	offset int,
	limit int,
) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.db.Model(&model.User{})
	kw := strings.TrimSpace(keyword)
	if kw != "" {
		query = query.Where("username LIKE ?", "%"+kw+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order(order).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UserRepository) ListAvatarKeys() ([]string, error) {
	var keys []string
	if err := r.db.Model(&model.User{}).Where("avatar <> ?", "").Pluck("avatar", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *UserRepository) DeleteUserCascade(userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		// 该账号点赞过的文章计数减一
		likedPosts := tx.Model(&model.PostLike{}).Select("post_id").Where("user_id = ?", userID)
		if err := tx.Model(&model.Post{}).
			Where("id IN (?) AND user_id <> ?", likedPosts, userID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}

		ownPosts := tx.Model(&model.Post{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("post_id IN (?)", ownPosts).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Post{}).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
}

func (r *UserRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
