package repository

import (
	"blog-server/internal/model"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) FindByID(id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.Preload("User").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) FindByIDWithLikes(id uint) (*model.Post, error) {
	var post model.Post
	err := r.db.Preload("User").
		Preload("Likes", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Likes.User").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) FindByIDAndAuthor(id uint, userID uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.Preload("User").Where("id = ? AND user_id = ?", id, userID).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) ListAll() ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.Preload("User").Order("created_at desc, id desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) ListByAuthor(userID uint) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.Preload("User").Where("user_id = ?", userID).
		Order("created_at desc, id desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) AdminListPosts(keyword string, offset int, limit int) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	query := r.db.Model(&model.Post{})
	kw := strings.TrimSpace(keyword)
	if kw != "" {
		query = query.Where("title LIKE ?", "%"+kw+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Preload("User").Offset(offset).Limit(limit).Order("id desc").Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *PostRepository) UpdateByID(id uint, updates map[string]interface{}) error {
	result := r.db.Model(&model.Post{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostRepository) AddLike(postID uint, userID uint) (int, error) {
	var likesCount int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&model.PostLike{}).
			Where("post_id = ? AND user_id = ?", postID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyLiked
		}

		// 唯一索引兜底并发重复点赞
		if err := tx.Create(&model.PostLike{PostID: postID, UserID: userID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyLiked
			}
			return err
		}
		if err := tx.Model(&model.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
			return err
		}
		var updated model.Post
		if err := tx.Select("likes_count").First(&updated, postID).Error; err != nil {
			return err
		}
		likesCount = updated.LikesCount
		return nil
	})
	if err != nil {
		return 0, err
	}
	return likesCount, nil
}

func (r *PostRepository) DeletePostCascade(postID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Post{}, postID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *PostRepository) ListImageKeys() ([]string, error) {
	var keys []string
	err := r.db.Model(&model.Post{}).
		Where("image_kind = ? AND image_key <> ?", model.ImageKindBlob, "").
		Pluck("image_key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *PostRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Post{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
