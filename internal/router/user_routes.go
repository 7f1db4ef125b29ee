package router

import (
	"blog-server/internal/handler"
	"blog-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerUserRoutes(api *gin.RouterGroup, h *handler.Handler, mw routeMiddlewares) {
	users := api.Group("/users")

	users.POST("", mw.authLimiter, mw.uploadLimit, h.Register)
	users.POST("/login", mw.authLimiter, mw.bodyLimit, h.Login)

	authed := users.Group("")
	authed.Use(mw.auth...)
	authed.GET("", h.ListUsers)
	authed.GET("/:id", h.GetUser)

	// 以下接口只能操作自己的账号
	self := authed.Group("/:id")
	self.Use(middleware.RequireSelf("id"))
	self.PATCH("/username", mw.bodyLimit, h.UpdateUsername)
	self.PATCH("/password", mw.bodyLimit, h.UpdatePassword)
	self.PATCH("/picture", mw.upLimiter, mw.uploadLimit, h.UpdatePicture)
	self.DELETE("", h.DeleteAccount)
}
