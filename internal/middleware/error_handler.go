package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradekit/orbpulse/internal/domain/dto"
	"github.com/tradekit/orbpulse/internal/logger"
)

// ErrorHandler converts errors attached to the Gin context via c.Error into
// a standardized JSON error response. Handlers that already wrote a response
// are left alone.
var ErrorHandler gin.HandlerFunc = func(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	logger.L().Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")

	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	c.JSON(status, dto.NewErrorResponse("request failed", err))
}

// AbortWithError logs the error and aborts the request with a standardized
// JSON body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	logger.L().Error().Err(err).Int("status", status).Str("path", c.Request.URL.Path).Msg(message)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
