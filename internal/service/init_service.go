package service

import (
	"blog-server/internal/consts"
	"blog-server/internal/model"
	"blog-server/internal/repository"
	"blog-server/internal/utils"
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type InitPayload struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	SiteName        string `json:"site_name"`
	SiteDescription string `json:"site_description"`
}

// IsSystemInitialized 返回系统是否已完成初始化。
func (s *AppService) IsSystemInitialized() bool {
	return !s.GetBool(consts.ConfigAllowInit)
}

// InitializeSystem 写入站点设置并创建首个管理员账号，只会成功一次。
func (s *AppService) InitializeSystem(payload InitPayload) error {
	if s.IsSystemInitialized() {
		return NewForbiddenError("系统已初始化")
	}
	if ok, msg := utils.ValidateUsername(payload.Username); !ok {
		return NewValidationError(msg)
	}
	if ok, msg := utils.ValidatePassword(payload.Password); !ok {
		return NewValidationError(msg)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return NewInternalError("初始化失败")
	}

	settingValues := map[string]string{}
	if name := strings.TrimSpace(payload.SiteName); name != "" {
		settingValues[consts.ConfigSiteName] = name
	}
	if desc := strings.TrimSpace(payload.SiteDescription); desc != "" {
		settingValues[consts.ConfigSiteDescription] = desc
	}

	admin := &model.User{
		Username: payload.Username,
		Password: string(hashedPassword),
		Role:     consts.RoleAdministrator,
	}

	err = s.repos.System.InitializeSystem(settingValues, admin)
	s.ClearCache()
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSystemAlreadyInitialized):
			return NewForbiddenError("系统已初始化")
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return NewConflictError("用户名已存在")
		}
		log.Printf("Initialize system error: %v\n", err)
		return NewInternalError("初始化失败")
	}

	s.InvalidateUserCache(admin.ID)
	log.Printf("✅ 系统初始化完成，管理员: %s", admin.Username)
	return nil
}
