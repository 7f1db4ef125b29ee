package handler

import (
	"net/http"

	"blog-server/internal/service"

	"github.com/gin-gonic/gin"
)

// Register 注册账号，multipart 表单，头像可选
func (h *Handler) Register(c *gin.Context) {
	payload := service.RegisterPayload{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
		Role:     c.PostForm("role"),
	}
	if file, err := c.FormFile("file"); err == nil {
		payload.Avatar = file
	}

	profile, err := h.service.Register(c.Request.Context(), payload)
	if err != nil {
		WriteServiceError(c, err, "注册失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "注册成功",
		"user":    profile,
	})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	result, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		WriteServiceError(c, err, "登录失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "登录成功",
		"token":   result.Token,
		"user_id": result.UserID,
		"role":    result.Role,
	})
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := ParseIDParam(c, "id", http.StatusBadRequest, "无效的用户ID")
	if !ok {
		return
	}

	profile, err := h.service.GetUser(id)
	if err != nil {
		WriteServiceError(c, err, "获取用户信息失败")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers()
	if err != nil {
		WriteServiceError(c, err, "获取用户列表失败")
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUsername 修改用户名，返回新令牌
func (h *Handler) UpdateUsername(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	token, err := h.service.ChangeUsername(uid, req.Username)
	if err != nil {
		WriteServiceError(c, err, "更新失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "用户名更新成功",
		"token":   token,
	})
}

func (h *Handler) UpdatePassword(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	if err := h.service.ChangePassword(uid, req.CurrentPassword, req.NewPassword); err != nil {
		WriteServiceError(c, err, "更新失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "密码修改成功"})
}

func (h *Handler) UpdatePicture(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请选择要上传的图片"})
		return
	}

	profile, err := h.service.ChangeProfilePicture(c.Request.Context(), uid, file)
	if err != nil {
		WriteServiceError(c, err, "头像更新失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "头像更新成功",
		"user":    profile,
	})
}

// DeleteAccount 注销当前账号
func (h *Handler) DeleteAccount(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAccount(c.Request.Context(), uid); err != nil {
		WriteServiceError(c, err, "删除用户失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "账号已删除"})
}
