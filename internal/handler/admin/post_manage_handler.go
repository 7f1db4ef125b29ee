package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListPosts(c *gin.Context) {
	page, err := h.service.AdminListPosts(parseListParams(c))
	if err != nil {
		writeServiceError(c, err, "获取文章列表失败")
		return
	}
	c.JSON(http.StatusOK, page)
}

// DeletePost 删除任意文章，不校验作者
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parseID(c, "文章不存在")
	if !ok {
		return
	}

	if err := h.service.AdminDeletePost(c.Request.Context(), id); err != nil {
		writeServiceError(c, err, "删除文章失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "文章已删除"})
}
