package middleware

import (
	"blog-server/internal/consts"
	"blog-server/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimitMiddleware 限制非上传接口的请求体大小
func BodyLimitMiddleware(appService *service.AppService) gin.HandlerFunc {
	return func(c *gin.Context) {
		maxSizeMB := appService.GetInt(consts.ConfigMaxRequestBodySize)
		if maxSizeMB <= 0 {
			// 如果未设置或为0，默认 2MB
			maxSizeMB = 2
		}
		maxBytes := int64(maxSizeMB) * 1024 * 1024

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// UploadBodyLimitMiddleware 限制带图片的 multipart 接口请求体大小，预留 1MB 给表单字段
func UploadBodyLimitMiddleware(appService *service.AppService) gin.HandlerFunc {
	return func(c *gin.Context) {
		maxSizeMB := appService.GetInt(consts.ConfigMaxUploadSize)
		if maxSizeMB <= 0 {
			maxSizeMB = 10
		}
		maxBytes := int64(maxSizeMB+1) * 1024 * 1024

		if c.Request.ContentLength > maxBytes && c.Request.ContentLength != -1 {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("文件大小不能超过 %dMB", maxSizeMB)})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
