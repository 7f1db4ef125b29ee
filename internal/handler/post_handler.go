package handler

import (
	"net/http"

	"blog-server/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePost 发布文章，multipart 表单，配图必填
func (h *Handler) CreatePost(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请选择要上传的图片"})
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), uid, service.CreatePostPayload{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
		Image:   file,
	})
	if err != nil {
		WriteServiceError(c, err, "发布文章失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "发布成功",
		"post":    post,
	})
}

func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.service.ListPosts()
	if err != nil {
		WriteServiceError(c, err, "获取文章列表失败")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// ListPostsByAuthor 作者 id 非法或不存在时返回 404
func (h *Handler) ListPostsByAuthor(c *gin.Context) {
	userID, ok := ParseIDParam(c, "userId", http.StatusNotFound, "用户不存在")
	if !ok {
		return
	}

	posts, err := h.service.ListPostsByAuthor(userID)
	if err != nil {
		WriteServiceError(c, err, "获取文章列表失败")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handler) ListPostsByUsername(c *gin.Context) {
	posts, err := h.service.ListPostsByUsername(c.Param("username"))
	if err != nil {
		WriteServiceError(c, err, "获取文章列表失败")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handler) GetPost(c *gin.Context) {
	postID, ok := ParseIDParam(c, "id", http.StatusNotFound, "文章不存在")
	if !ok {
		return
	}

	post, err := h.service.GetPost(postID)
	if err != nil {
		WriteServiceError(c, err, "获取文章失败")
		return
	}
	c.JSON(http.StatusOK, post)
}

// EditPost 修改自己的文章，配图可选
func (h *Handler) EditPost(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := ParseIDParam(c, "id", http.StatusNotFound, "文章不存在")
	if !ok {
		return
	}

	payload := service.EditPostPayload{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
	}
	if file, err := c.FormFile("file"); err == nil {
		payload.Image = file
	}

	post, err := h.service.EditPost(c.Request.Context(), postID, uid, payload)
	if err != nil {
		WriteServiceError(c, err, "更新文章失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "更新成功",
		"post":    post,
	})
}

func (h *Handler) LikePost(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := ParseIDParam(c, "id", http.StatusNotFound, "文章不存在")
	if !ok {
		return
	}

	likesCount, err := h.service.LikePost(postID, uid)
	if err != nil {
		WriteServiceError(c, err, "点赞失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "点赞成功",
		"likes_count": likesCount,
	})
}

func (h *Handler) DeletePost(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := ParseIDParam(c, "id", http.StatusNotFound, "文章不存在")
	if !ok {
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), postID, uid); err != nil {
		WriteServiceError(c, err, "删除文章失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "文章已删除"})
}
