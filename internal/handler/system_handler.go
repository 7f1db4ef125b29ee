package handler

import (
	"net/http"

	"blog-server/internal/consts"
	"blog-server/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
		"version": consts.ApplicationVersion,
	})
}

// GetWebInfo 返回站点公开信息
func (h *Handler) GetWebInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"site_name":        h.service.GetString(consts.ConfigSiteName),
		"site_description": h.service.GetString(consts.ConfigSiteDescription),
		"allow_register":   h.service.GetBool(consts.ConfigAllowRegister),
	})
}

func (h *Handler) GetInitState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"initialized": h.service.IsSystemInitialized()})
}

// Init 初始化系统并创建首个管理员
func (h *Handler) Init(c *gin.Context) {
	var req service.InitPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	if err := h.service.InitializeSystem(req); err != nil {
		WriteServiceError(c, err, "初始化失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "初始化成功"})
}
