package repository

import (
	"blog-server/internal/consts"
	"blog-server/internal/model"

	"gorm.io/gorm"
)

type SystemRepository struct {
	db *gorm.DB
}

// InitializeSystem 以 allow_init 作为乐观锁，保证只有一个请求能创建首个管理员。
func (r *SystemRepository) InitializeSystem(settingValues map[string]string, admin *model.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&model.Setting{}).
			Where("key = ? AND value = ?", consts.ConfigAllowInit, "true").
			Update("value", "false")
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return ErrSystemAlreadyInitialized
		}

		for key, value := range settingValues {
			if key == consts.ConfigAllowInit {
				continue
			}
			if err := tx.Model(&model.Setting{}).Where("key = ?", key).Update("value", value).Error; err != nil {
				return err
			}
		}

		return tx.Create(admin).Error
	})
}
