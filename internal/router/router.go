package router

import (
	"blog-server/internal/consts"
	"blog-server/internal/handler"
	adminhandler "blog-server/internal/handler/admin"
	"blog-server/internal/middleware"
	"blog-server/internal/service"

	"github.com/gin-gonic/gin"
)

type Router struct {
	handler      *handler.Handler
	adminHandler *adminhandler.Handler
	service      *service.AppService
}

func NewRouter(h *handler.Handler, ah *adminhandler.Handler, appService *service.AppService) *Router {
	return &Router{
		handler:      h,
		adminHandler: ah,
		service:      appService,
	}
}

// routeMiddlewares 各路由组复用的中间件实例
type routeMiddlewares struct {
	auth        []gin.HandlerFunc
	bodyLimit   gin.HandlerFunc
	uploadLimit gin.HandlerFunc
	authLimiter gin.HandlerFunc
	upLimiter   gin.HandlerFunc
	likeLimiter gin.HandlerFunc
}

func (rt *Router) Init(r *gin.Engine) {
	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders())

	api := r.Group("/api")

	// 限流器按接口组各建一个实例，计数互不影响
	mw := routeMiddlewares{
		auth: []gin.HandlerFunc{
			middleware.JWTAuth(),
			middleware.UserExistsCheck(rt.service),
		},
		bodyLimit:   middleware.BodyLimitMiddleware(rt.service),
		uploadLimit: middleware.UploadBodyLimitMiddleware(rt.service),
		authLimiter: middleware.RateLimitMiddleware(rt.service, "auth", consts.ConfigRateLimitAuthRPS, consts.ConfigRateLimitAuthBurst),
		upLimiter:   middleware.RateLimitMiddleware(rt.service, "upload", consts.ConfigRateLimitUploadRPS, consts.ConfigRateLimitUploadBurst),
		likeLimiter: middleware.RateLimitMiddleware(rt.service, "like", consts.ConfigRateLimitLikeRPS, consts.ConfigRateLimitLikeBurst),
	}

	registerSystemRoutes(api, rt.handler, mw)
	registerUserRoutes(api, rt.handler, mw)
	registerPostRoutes(api, rt.handler, mw)
	registerAdminRoutes(api, rt.adminHandler, mw)
}
