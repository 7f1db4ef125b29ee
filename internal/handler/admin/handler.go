package admin

import (
	"blog-server/internal/janitor"
	"blog-server/internal/service"
	"net/http"
	"strconv"

	basehandler "blog-server/internal/handler"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *service.AppService
	janitor *janitor.Janitor
}

func NewHandler(appService *service.AppService, j *janitor.Janitor) *Handler {
	return &Handler{service: appService, janitor: j}
}

func writeServiceError(c *gin.Context, err error, fallbackMessage string) {
	basehandler.WriteServiceError(c, err, fallbackMessage)
}

func parseListParams(c *gin.Context) service.AdminListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return service.AdminListParams{
		Page:     page,
		PageSize: pageSize,
		Keyword:  c.Query("keyword"),
	}
}

func parseID(c *gin.Context, notFoundMessage string) (uint, bool) {
	return basehandler.ParseIDParam(c, "id", http.StatusNotFound, notFoundMessage)
}
