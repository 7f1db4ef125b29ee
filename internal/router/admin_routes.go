package router

import (
	adminhandler "blog-server/internal/handler/admin"
	"blog-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerAdminRoutes(api *gin.RouterGroup, h *adminhandler.Handler, mw routeMiddlewares) {
	adminGroup := api.Group("/admin")
	adminGroup.Use(mw.auth...)
	adminGroup.Use(middleware.AdminCheck())

	adminGroup.GET("/stats", h.GetServerStats)

	adminGroup.GET("/settings", h.GetSettings)
	adminGroup.PATCH("/settings", mw.bodyLimit, h.UpdateSettings)

	adminGroup.GET("/users", h.ListUsers)
	adminGroup.DELETE("/users/:id", h.DeleteUser)

	adminGroup.GET("/posts", h.ListPosts)
	adminGroup.DELETE("/posts/:id", h.DeletePost)

	adminGroup.POST("/janitor/run", h.RunJanitor)
}
