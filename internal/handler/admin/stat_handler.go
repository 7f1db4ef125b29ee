package admin

import (
	"errors"
	"log"
	"net/http"

	"blog-server/internal/janitor"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetServerStats(c *gin.Context) {
	stats, err := h.service.AdminGetServerStats()
	if err != nil {
		writeServiceError(c, err, "获取统计信息失败")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RunJanitor 立即执行一次孤立文件清理
func (h *Handler) RunJanitor(c *gin.Context) {
	report, err := h.janitor.RunOnce(c.Request.Context())
	if err != nil {
		if errors.Is(err, janitor.ErrAlreadyRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": "清理任务正在运行"})
			return
		}
		log.Printf("Run janitor error: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "清理失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "清理完成",
		"report":  report,
	})
}
