package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/groph-boost/internal/domain"
	"github.com/fsdevblog/groph-boost/internal/transport/api/middlewares"
)

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID
// устанавливается в middlewares.AuthRequired. В случае, если значения в
// контексте нет или ошибка утверждения типа - вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	userIDStr, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	userID, ok := userIDStr.(int64)
	if !ok {
		return 0
	}
	return userID
}

// getIDParam парсит числовой параметр пути. При ошибке пишет 404 и
// возвращает false.
func getIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// abortWithServiceError конвертирует доменные ошибки в http статусы.
// Единая точка маппинга, чтобы хэндлеры не расходились в кодах.
func abortWithServiceError(c *gin.Context, err error) {
	switch {
	case domain.IsInvalidState(err):
		_ = c.AbortWithError(http.StatusConflict, err).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrRecordNotFound):
		c.AbortWithStatus(http.StatusNotFound)
	case errors.Is(err, domain.ErrDuplicateKey),
		errors.Is(err, domain.ErrHasOpenOrders),
		errors.Is(err, domain.ErrHasBalance):
		_ = c.AbortWithError(http.StatusConflict, err).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrInsufficientFunds):
		c.AbortWithStatus(http.StatusPaymentRequired)
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrNotVerified),
		errors.Is(err, domain.ErrAccountDisabled):
		_ = c.AbortWithError(http.StatusForbidden, err).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrReferenceNotFound):
		_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
	}
}
