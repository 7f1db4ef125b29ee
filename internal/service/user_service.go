package service

import (
	"blog-server/internal/config"
	"blog-server/internal/consts"
	"blog-server/internal/model"
	"blog-server/internal/utils"
	"context"
	"errors"
	"log"
	"mime/multipart"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 登录失败时统一的提示，不区分用户名不存在与密码错误
const invalidCredentialsMessage = "用户名或密码错误"

type UserProfile struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterPayload struct {
	Username string
	Password string
	Role     string
	Avatar   *multipart.FileHeader
}

type LoginResult struct {
	Token  string
	UserID uint
	Role   string
}

func (s *AppService) toUserProfile(user *model.User) UserProfile {
	return UserProfile{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Avatar:    user.Avatar,
		AvatarURL: s.blobURL(user.Avatar),
		CreatedAt: user.CreatedAt,
	}
}

func (s *AppService) issueToken(user *model.User) (string, error) {
	cfg := config.Get()
	return utils.GenerateLoginToken(user.ID, user.Username, user.Role, time.Hour*time.Duration(cfg.JWT.ExpirationHours))
}

// findUser 统一处理账号查询的错误映射。
func (s *AppService) findUser(userID uint) (*model.User, error) {
	user, err := s.repos.User.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("用户不存在")
		}
		log.Printf("Find user %d error: %v\n", userID, err)
		return nil, NewInternalError("查询用户失败")
	}
	return user, nil
}

func (s *AppService) resolveRegisterRole(role string) (string, error) {
	switch role {
	case "", consts.RoleStandard:
		return consts.RoleStandard, nil
	case consts.RoleAdministrator:
		if !s.GetBool(consts.ConfigAllowAdminRegister) {
			return "", NewForbiddenError("不允许注册管理员账号")
		}
		return consts.RoleAdministrator, nil
	default:
		return "", NewValidationError("无效的角色")
	}
}

// Register 注册新账号。头像可选，先写入文件存储，入库失败时删除。
func (s *AppService) Register(ctx context.Context, payload RegisterPayload) (*UserProfile, error) {
	if !s.GetBool(consts.ConfigAllowRegister) {
		return nil, NewForbiddenError("注册功能已关闭")
	}
	if ok, msg := utils.ValidateUsername(payload.Username); !ok {
		return nil, NewValidationError(msg)
	}
	if ok, msg := utils.ValidatePassword(payload.Password); !ok {
		return nil, NewValidationError(msg)
	}
	role, err := s.resolveRegisterRole(payload.Role)
	if err != nil {
		return nil, err
	}

	taken, err := s.repos.User.FieldExists(consts.UserFieldUsername, payload.Username, nil)
	if err != nil {
		log.Printf("Check username error: %v\n", err)
		return nil, NewInternalError("注册失败")
	}
	if taken {
		return nil, NewConflictError("用户名已存在")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewInternalError("注册失败")
	}

	avatarKey := ""
	if payload.Avatar != nil {
		avatarKey, err = s.storeImage(ctx, consts.BlobNamespaceAvatars, payload.Avatar)
		if err != nil {
			return nil, err
		}
	}

	user := model.User{
		Username: payload.Username,
		Password: string(hashedPassword),
		Role:     role,
		Avatar:   avatarKey,
	}
	if err := s.repos.User.Create(&user); err != nil {
		s.deleteBlobBestEffort(ctx, avatarKey)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewConflictError("用户名已存在")
		}
		log.Printf("Create user error: %v\n", err)
		return nil, NewInternalError("注册失败")
	}

	// sqlite 可能复用已删除账号的 id
	s.InvalidateUserCache(user.ID)

	profile := s.toUserProfile(&user)
	return &profile, nil
}

// Login 校验用户名与密码并签发会话令牌。
func (s *AppService) Login(username, password string) (*LoginResult, error) {
	user, err := s.repos.User.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewUnauthorizedError(invalidCredentialsMessage)
		}
		log.Printf("Login query error: %v\n", err)
		return nil, NewInternalError("登录失败")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, NewUnauthorizedError(invalidCredentialsMessage)
	}

	token, err := s.issueToken(user)
	if err != nil {
		log.Printf("Generate token error: %v\n", err)
		return nil, NewInternalError("生成Token失败")
	}

	return &LoginResult{Token: token, UserID: user.ID, Role: user.Role}, nil
}

func (s *AppService) GetUser(userID uint) (*UserProfile, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}
	profile := s.toUserProfile(user)
	return &profile, nil
}

// ListUsers 没有任何账号时返回 NotFound。
func (s *AppService) ListUsers() ([]UserProfile, error) {
	users, err := s.repos.User.ListAll()
	if err != nil {
		log.Printf("List users error: %v\n", err)
		return nil, NewInternalError("获取用户列表失败")
	}
	if len(users) == 0 {
		return nil, NewNotFoundError("暂无用户")
	}

	profiles := make([]UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, s.toUserProfile(&users[i]))
	}
	return profiles, nil
}

// ChangeUsername 修改用户名并签发新令牌。
func (s *AppService) ChangeUsername(userID uint, newUsername string) (string, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return "", err
	}
	if ok, msg := utils.ValidateUsername(newUsername); !ok {
		return "", NewValidationError(msg)
	}

	excludeID := userID
	taken, err := s.repos.User.FieldExists(consts.UserFieldUsername, newUsername, &excludeID)
	if err != nil {
		log.Printf("Check username error: %v\n", err)
		return "", NewInternalError("修改用户名失败")
	}
	if taken {
		return "", NewConflictError("用户名已存在")
	}

	if err := s.repos.User.UpdateUsernameByID(userID, newUsername); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return "", NewConflictError("用户名已存在")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return "", NewNotFoundError("用户不存在")
		}
		log.Printf("Update username error: %v\n", err)
		return "", NewInternalError("修改用户名失败")
	}

	user.Username = newUsername
	token, err := s.issueToken(user)
	if err != nil {
		log.Printf("Generate token error: %v\n", err)
		return "", NewInternalError("生成Token失败")
	}
	return token, nil
}

func (s *AppService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.findUser(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return NewUnauthorizedError("当前密码错误")
	}
	if ok, msg := utils.ValidatePassword(newPassword); !ok {
		return NewValidationError(msg)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return NewInternalError("修改密码失败")
	}
	if err := s.repos.User.UpdatePasswordByID(userID, string(hashedPassword)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("用户不存在")
		}
		log.Printf("Update password error: %v\n", err)
		return NewInternalError("修改密码失败")
	}
	return nil
}

// ChangeProfilePicture 先写新文件再更新记录，旧文件尽力删除。
func (s *AppService) ChangeProfilePicture(ctx context.Context, userID uint, file *multipart.FileHeader) (*UserProfile, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	newKey, err := s.storeImage(ctx, consts.BlobNamespaceAvatars, file)
	if err != nil {
		return nil, err
	}

	if err := s.repos.User.UpdateAvatarByID(userID, newKey); err != nil {
		s.deleteBlobBestEffort(ctx, newKey)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("用户不存在")
		}
		log.Printf("Update avatar error: %v\n", err)
		return nil, NewInternalError("更新头像失败")
	}

	s.deleteBlobBestEffort(ctx, user.Avatar)

	user.Avatar = newKey
	profile := s.toUserProfile(user)
	return &profile, nil
}

// DeleteAccount 注销当前账号，级联删除其文章、点赞与文件。
func (s *AppService) DeleteAccount(ctx context.Context, userID uint) error {
	return s.purgeUser(ctx, userID)
}
