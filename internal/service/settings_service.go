package service

import (
	"blog-server/internal/consts"
	"blog-server/internal/model"
	"log"
	"strconv"
)

const DefaultValueNotFound = "||__NOT_FOUND__||"

var DefaultSettings = []model.Setting{
	{Key: consts.ConfigSiteName, Value: "Blog Server", Desc: "网站名称", Category: "site"},
	{Key: consts.ConfigSiteDescription, Value: "A simple blogging platform", Desc: "网站描述", Category: "site"},
	{Key: consts.ConfigAllowInit, Value: "true", Desc: "是否允许初始化管理员账号", Category: "auth"},
	{Key: consts.ConfigAllowRegister, Value: "true", Desc: "是否开放注册 (true/false)", Category: "auth"},
	{Key: consts.ConfigAllowAdminRegister, Value: "false", Desc: "是否允许注册时申请管理员角色 (true/false)", Category: "auth"},
	{Key: consts.ConfigMaxUploadSize, Value: "10", Desc: "单个图片最大大小 (MB)", Category: "upload"},
	{Key: consts.ConfigAllowFileExtensions, Value: ".jpg,.jpeg,.png,.gif,.webp", Desc: "允许上传的文件扩展名", Category: "upload"},
	{Key: consts.ConfigRateLimitEnabled, Value: "true", Desc: "是否开启接口限流", Category: "security"},
	{Key: consts.ConfigRateLimitAuthRPS, Value: "0.5", Desc: "认证接口每秒请求限制 (RPS)", Category: "security"},
	{Key: consts.ConfigRateLimitAuthBurst, Value: "5", Desc: "认证接口突发请求限制", Category: "security"},
	{Key: consts.ConfigRateLimitUploadRPS, Value: "1.0", Desc: "上传接口每秒请求限制 (RPS)", Category: "security"},
	{Key: consts.ConfigRateLimitUploadBurst, Value: "5", Desc: "上传接口突发请求限制", Category: "security"},
	{Key: consts.ConfigRateLimitLikeRPS, Value: "2.0", Desc: "点赞接口每秒请求限制 (RPS)", Category: "security"},
	{Key: consts.ConfigRateLimitLikeBurst, Value: "10", Desc: "点赞接口突发请求限制", Category: "security"},
	{Key: consts.ConfigTrustedProxies, Value: "", Desc: "可信代理列表，逗号分隔 (IP/CIDR)", Category: "security"},
	{Key: consts.ConfigMaxRequestBodySize, Value: "2", Desc: "非文件上传接口最大请求体限制 (MB)", Category: "security"},
	{Key: consts.ConfigStaticCacheControl, Value: "public, max-age=31536000", Desc: "静态资源缓存设置 (Cache-Control)", Category: "site"},
}

func (s *AppService) ClearCache() {
	s.settingsCache.Range(func(key, value interface{}) bool {
		s.settingsCache.Delete(key)
		return true
	})
}

// InitializeSettings 写入缺失的默认配置。
func (s *AppService) InitializeSettings() error {
	if err := s.repos.Setting.InitializeDefaults(DefaultSettings); err != nil {
		return err
	}
	s.ClearCache()
	return nil
}

func (s *AppService) GetString(key string) string {
	if val, ok := s.settingsCache.Load(key); ok {
		strVal, ok := val.(string)
		if !ok {
			s.settingsCache.Delete(key)
		} else {
			if strVal == DefaultValueNotFound {
				return ""
			}
			return strVal
		}
	}

	setting, err := s.repos.Setting.FindByKey(key)
	if err != nil {
		// 数据库没查到，尝试查找默认配置
		for _, def := range DefaultSettings {
			if def.Key == key {
				newSetting := def
				// 并发写入可能主键冲突，忽略即可
				if createErr := s.repos.Setting.Create(&newSetting); createErr != nil {
					log.Printf("Warning: 写入默认配置 %s 失败: %v\n", key, createErr)
				}
				s.settingsCache.Store(key, newSetting.Value)
				return newSetting.Value
			}
		}

		s.settingsCache.Store(key, DefaultValueNotFound)
		return ""
	}

	s.settingsCache.Store(key, setting.Value)
	return setting.Value
}

func (s *AppService) GetInt(key string) int {
	valStr := s.GetString(key)
	if valStr == "" {
		return 0
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0
	}
	return val
}

func (s *AppService) GetInt64(key string) int64 {
	valStr := s.GetString(key)
	if valStr == "" {
		return 0
	}
	val, err := strconv.ParseInt(valStr, 10, 64)
	if err != nil {
		return 0
	}
	return val
}

func (s *AppService) GetFloat64(key string) float64 {
	valStr := s.GetString(key)
	if valStr == "" {
		return 0
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return 0
	}
	return val
}

func (s *AppService) GetBool(key string) bool {
	valStr := s.GetString(key)
	if valStr == "" {
		return false
	}
	// ParseBool 支持 "1", "t", "T", "true", "TRUE", "True"
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false
	}
	return val
}
