package repository

import (
	"blog-server/internal/model"

	"gorm.io/gorm"
)

type SettingStore interface {
	InitializeDefaults(defaults []model.Setting) error
	FindByKey(key string) (*model.Setting, error)
	Create(setting *model.Setting) error
	FindAll() ([]model.Setting, error)
	UpdateSettings(items []UpdateSettingItem, maskedValue string) error
}

type UpdateSettingItem struct {
	Key   string
	Value string
}

type SettingRepository struct {
	db *gorm.DB
}

// InitializeDefaults 写入缺失的默认配置，已存在的仅同步描述信息，不覆盖值。
func (r *SettingRepository) InitializeDefaults(defaults []model.Setting) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, def := range defaults {
			var count int64
			if err := tx.Model(&model.Setting{}).Where("key = ?", def.Key).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				item := def
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Model(&model.Setting{}).Where("key = ?", def.Key).Updates(map[string]interface{}{
				"category":  def.Category,
				"desc":      def.Desc,
				"sensitive": def.Sensitive,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SettingRepository) FindByKey(key string) (*model.Setting, error) {
	var setting model.Setting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *SettingRepository) Create(setting *model.Setting) error {
	return r.db.Create(setting).Error
}

func (r *SettingRepository) FindAll() ([]model.Setting, error) {
	var settings []model.Setting
	if err := r.db.Order("category asc, key asc").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *SettingRepository) UpdateSettings(items []UpdateSettingItem, maskedValue string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			skip, err := shouldSkipMaskedSensitiveSettingUpdate(tx, item, maskedValue)
			if err != nil {
				return err
			}
			if skip {
				continue
			}

			if err := upsertSettingValue(tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func shouldSkipMaskedSensitiveSettingUpdate(tx *gorm.DB, item UpdateSettingItem, maskedValue string) (bool, error) {
	if item.Value != maskedValue {
		return false, nil
	}

	var currentSetting model.Setting
	if err := tx.Where("key = ?", item.Key).First(&currentSetting).Error; err != nil {
		return false, nil
	}

	return currentSetting.Sensitive, nil
}

func upsertSettingValue(tx *gorm.DB, item UpdateSettingItem) error {
	result := tx.Model(&model.Setting{}).Where("key = ?", item.Key).Update("value", item.Value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return tx.Create(&model.Setting{Key: item.Key, Value: item.Value}).Error
	}
	return nil
}
