package api

import (
	"errors"
	"net/http"

	"github.com/IPampurin/AromaQuizBot/pkg/service"
	"github.com/gin-gonic/gin"
	"github.com/wb-go/wbf/logger"
)

// CreateRedirect обрабатывает GET /redirect?item=...&user_id=...
// Создаёт короткую ссылку на карточку товара и отвечает 302 на короткий путь,
// чтобы вызывающая сторона увидела код в заголовке Location
func CreateRedirect(svc service.ServiceMethods, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {

		item := c.Query("item")
		if item == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "параметр item обязателен"})
			return
		}
		userID := c.Query("user_id")

		link, err := svc.CreateShortLink(c.Request.Context(), log, item, userID)
		if err != nil {
			if errors.Is(err, service.ErrCodeSpaceExhausted) {
				// операционная ошибка: падает только этот запрос, не процесс
				log.Ctx(c.Request.Context()).Error("пространство кодов исчерпано", "item", item)
				c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "не удалось создать короткую ссылку"})
				return
			}
			log.Ctx(c.Request.Context()).Error("ошибка создания ссылки", "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "внутренняя ошибка сервера"})
			return
		}

		c.Redirect(http.StatusFound, "/"+link.ShortURL)
	}
}

// Redirect обрабатывает GET /:code - переход по короткой ссылке
func Redirect(svc service.ServiceMethods, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {

		code := c.Param("code")

		targetURL, err := svc.ResolveShortCode(c.Request.Context(), log, code)
		if err != nil {
			if errors.Is(err, service.ErrLinkNotFound) {
				c.String(http.StatusNotFound, "Ссылка не найдена")
				return
			}
			log.Ctx(c.Request.Context()).Error("ошибка получения ссылки", "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "внутренняя ошибка"})
			return
		}

		c.Redirect(http.StatusFound, targetURL)
	}
}

// GetAnalytics обрабатывает GET /analytics/:code
func GetAnalytics(svc service.ServiceMethods, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {

		code := c.Param("code")

		analytics, err := svc.LinkAnalytics(c.Request.Context(), log, code)
		if err != nil {
			if errors.Is(err, service.ErrLinkNotFound) {
				c.JSON(http.StatusNotFound, ErrorResponse{Error: "ссылка не найдена"})
				return
			}
			log.Ctx(c.Request.Context()).Error("ошибка получения аналитики", "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "внутренняя ошибка"})
			return
		}

		c.JSON(http.StatusOK, analytics)
	}
}
