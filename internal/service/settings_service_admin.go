package service

import (
	"blog-server/internal/model"
	"blog-server/internal/repository"
	"log"
	"sort"
)

const maskedSettingValue = "**********"

type UpdateSettingPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

var settingCategoryOrder = map[string]int{
	"site":     0,
	"auth":     1,
	"upload":   2,
	"security": 3,
}

// AdminListSettings 获取全部系统设置，敏感值脱敏。
func (s *AppService) AdminListSettings() ([]model.Setting, error) {
	settings, err := s.repos.Setting.FindAll()
	if err != nil {
		log.Printf("List settings error: %v\n", err)
		return nil, NewInternalError("获取配置失败")
	}

	sortSettingsForAdmin(settings)
	maskSensitiveSettings(settings)
	return settings, nil
}

// AdminUpdateSettings 批量更新系统设置，并在成功后清理配置缓存。
func (s *AppService) AdminUpdateSettings(items []UpdateSettingPayload) error {
	if len(items) == 0 {
		return NewValidationError("没有需要更新的配置")
	}

	repoItems := make([]repository.UpdateSettingItem, 0, len(items))
	for _, item := range items {
		if item.Key == "" {
			return NewValidationError("配置键不能为空")
		}
		repoItems = append(repoItems, repository.UpdateSettingItem{Key: item.Key, Value: item.Value})
	}

	if err := s.repos.Setting.UpdateSettings(repoItems, maskedSettingValue); err != nil {
		log.Printf("Update settings error: %v\n", err)
		return NewInternalError("更新失败")
	}

	s.ClearCache()
	return nil
}

func maskSensitiveSettings(settings []model.Setting) {
	for i := range settings {
		if settings[i].Sensitive {
			settings[i].Value = maskedSettingValue
		}
	}
}

// sortSettingsForAdmin 按分类固定顺序排列，未知分类排在最后。
func sortSettingsForAdmin(settings []model.Setting) {
	rank := func(category string) int {
		if r, ok := settingCategoryOrder[category]; ok {
			return r
		}
		return len(settingCategoryOrder)
	}
	sort.SliceStable(settings, func(i, j int) bool {
		ri, rj := rank(settings[i].Category), rank(settings[j].Category)
		if ri != rj {
			return ri < rj
		}
		return settings[i].Key < settings[j].Key
	})
}
