package admin

import (
	"net/http"

	"blog-server/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.service.AdminListSettings()
	if err != nil {
		writeServiceError(c, err, "获取配置失败")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req []service.UpdateSettingPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	if err := h.service.AdminUpdateSettings(req); err != nil {
		writeServiceError(c, err, "更新失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "配置已更新"})
}
