package handler

import (
	"blog-server/internal/common/httpx"
	"blog-server/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *service.AppService
}

func NewHandler(appService *service.AppService) *Handler {
	return &Handler{service: appService}
}

// WriteServiceError 将 service 层错误映射为 HTTP 响应
func WriteServiceError(c *gin.Context, err error, fallbackMessage string) {
	httpx.WriteServiceError(c, err, fallbackMessage)
}

// currentUserID 读取 JWTAuth 写入的账号 id，失败时已写出 401。
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "获取用户ID失败"})
		return 0, false
	}
	uid, ok := userID.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "获取用户ID失败"})
		return 0, false
	}
	return uid, true
}

// ParseIDParam 解析路径中的数字 id，失败时按 status 写出错误。
func ParseIDParam(c *gin.Context, name string, status int, message string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(status, gin.H{"error": message})
		return 0, false
	}
	return uint(id), true
}
