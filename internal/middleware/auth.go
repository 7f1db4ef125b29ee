package middleware

import (
	"blog-server/internal/consts"
	"blog-server/internal/service"
	"blog-server/internal/utils"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取请求头 Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "需要认证才能访问"})
			c.Abort()
			return
		}

		// 检查格式是否为 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 格式错误"})
			c.Abort()
			return
		}

		claims, err := utils.ParseLoginToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 无效或已过期"})
			c.Abort()
			return
		}

		c.Set("id", claims.ID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// UserExistsCheck 拦截已删除账号仍持有的令牌
func UserExistsCheck(appService *service.AppService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
			c.Abort()
			return
		}

		uid, ok := userID.(uint)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的用户ID类型"})
			c.Abort()
			return
		}

		found, err := appService.UserExists(uid)
		if err != nil {
			log.Printf("Check user exists error: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
			c.Abort()
			return
		}
		if !found {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "用户不存在"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func AdminCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exist := c.Get("role")
		role, ok := value.(string)
		if !exist || !ok || role != consts.RoleAdministrator {
			c.JSON(http.StatusForbidden, gin.H{"error": "需要管理员权限才能访问"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSelf 要求路径参数中的账号 id 与当前会话一致
func RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的用户ID"})
			c.Abort()
			return
		}

		value, _ := c.Get("id")
		uid, ok := value.(uint)
		if !ok || uint64(uid) != targetID {
			c.JSON(http.StatusForbidden, gin.H{"error": "只能操作自己的账号"})
			c.Abort()
			return
		}
		c.Next()
	}
}
