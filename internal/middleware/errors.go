package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockinfo/internal/domain/dto"
	"github.com/guttosm/stockinfo/internal/logger"
)

// ErrorHandler turns errors attached with c.Error into a single JSON response.
//
// It runs after the handler chain; if the handler already wrote a body the
// errors are only logged. Otherwise the last error is rendered as a
// dto.ErrorResponse with status 500 (or the status already set, if >= 400).
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}
	last := c.Errors.Last()
	logger.L().Error().
		Str("request_id", GetRequestID(c)).
		Str("path", c.Request.URL.Path).
		Err(last.Err).
		Msg("request error")

	if c.Writer.Written() {
		return
	}
	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	c.JSON(status, dto.NewErrorResponse(http.StatusText(status), last.Err))
}

// AbortWithError stops the chain and writes a dto.ErrorResponse with the given status.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}

// NotFound answers unknown routes with the standard error body.
func NotFound(c *gin.Context) {
	AbortWithError(c, http.StatusNotFound, "route not found", nil)
}
