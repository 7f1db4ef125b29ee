package router

import (
	"blog-server/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerSystemRoutes(api *gin.RouterGroup, h *handler.Handler, mw routeMiddlewares) {
	api.GET("/ping", h.Ping)
	api.GET("/web_info", h.GetWebInfo)

	api.GET("/init", h.GetInitState)
	api.POST("/init", mw.authLimiter, mw.bodyLimit, h.Init)
}
