package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/apperr"
	"go.uber.org/zap"
)

// ErrorResponse тело любой ошибки API
type ErrorResponse struct {
	Message string `json:"message"`
}

// ErrorHandler центральный обработчик ошибок: хендлеры складывают ошибку
// через c.Error и выходят, статус выбирается по таблице apperr.
// Детали неожиданных ошибок клиенту не показываются.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)
		message := err.Error()

		if status == http.StatusInternalServerError {
			logger.Error("Unhandled error",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			message = "something went wrong, please try again later"
		}

		c.JSON(status, ErrorResponse{Message: message})
	}
}
