package router

import (
	"blog-server/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerPostRoutes(api *gin.RouterGroup, h *handler.Handler, mw routeMiddlewares) {
	posts := api.Group("/posts")

	posts.GET("", h.ListPosts)
	posts.GET("/user/:userId", h.ListPostsByAuthor)
	posts.GET("/by/:username", h.ListPostsByUsername)
	posts.GET("/:id", h.GetPost)

	authed := posts.Group("")
	authed.Use(mw.auth...)
	authed.POST("", mw.upLimiter, mw.uploadLimit, h.CreatePost)
	authed.PATCH("/:id", mw.upLimiter, mw.uploadLimit, h.EditPost)
	authed.POST("/:id/like", mw.likeLimiter, h.LikePost)
	authed.DELETE("/:id", h.DeletePost)
}
