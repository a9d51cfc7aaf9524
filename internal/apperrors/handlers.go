package apperrors

import (
	"time"

	"github.com/gin-gonic/gin"

	"kupanga_backend/internal/logger"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error     *AppError `json:"error"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// HandleError renders an AppError on a gin context.
func HandleError(c *gin.Context, err *AppError) {
	if err.HTTPCode >= 500 {
		logger.Error("server error", "code", err.Code, "error", err.Error(), "path", c.Request.URL.Path)
	}

	c.JSON(err.HTTPCode, ErrorResponse{
		Error:     err,
		Path:      c.Request.URL.Path,
		Timestamp: time.Now().UTC(),
	})
}

// HandleServiceError maps any error coming out of the service layer:
// AppErrors pass through unchanged, everything else becomes a 500 without
// leaking the underlying cause to the client.
func HandleServiceError(c *gin.Context, err error) {
	var appErr *AppError
	if As(err, &appErr) {
		HandleError(c, appErr)
		return
	}
	HandleError(c, InternalError(err))
}
