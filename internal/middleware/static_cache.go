package middleware

import (
	"blog-server/internal/consts"
	"blog-server/internal/service"

	"github.com/gin-gonic/gin"
)

// StaticCacheMiddleware 为上传的图片添加 Cache-Control 头，取值来自 static_cache_control 配置
func StaticCacheMiddleware(appService *service.AppService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cc := appService.GetString(consts.ConfigStaticCacheControl); cc != "" {
			c.Header("Cache-Control", cc)
		}
		c.Next()
	}
}
