package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListUsers 分页获取账号列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, err := h.service.AdminListUsers(parseListParams(c))
	if err != nil {
		writeServiceError(c, err, "获取用户列表失败")
		return
	}
	c.JSON(http.StatusOK, page)
}

// DeleteUser 删除任意账号及其全部文章与文件
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "用户不存在")
	if !ok {
		return
	}

	if err := h.service.AdminDeleteUser(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "删除用户失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "用户已删除"})
}
