package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"Sulam-App/internal/domain/model"
)

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// respondError はドメインエラーをHTTPステータスに対応付けて返す
func respondError(c *gin.Context, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": vErr.Error(),
		})
	case errors.Is(err, model.ErrInvalidPlace):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_place",
			"message": err.Error(),
		})
	case errors.Is(err, model.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "session_not_found",
			"message": err.Error(),
		})
	case errors.Is(err, model.ErrPlaceNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "place_not_found",
			"message": err.Error(),
		})
	case errors.Is(err, model.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Invalid credentials or token",
		})
	case errors.Is(err, model.ErrAuthUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "auth_unavailable",
			"message": "Admin login is not configured",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}
