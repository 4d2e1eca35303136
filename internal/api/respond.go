package api

import (
	"github.com/gin-gonic/gin"

	"studiobook/internal/logger"
)

// RespondError writes the error with the status its kind dictates.
// Untagged errors are logged and reported as a generic 500.
func RespondError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status >= 500 {
		logger.Errorf("Request failed: %s %s: %v", c.Request.Method, c.FullPath(), err)
		// Partial failures keep their message so operators can reconcile
		// the half-applied state; everything else is a generic 500.
		if KindOf(err) != KindPartialFailure {
			c.JSON(status, ErrorResponse{Error: "internal error"})
			return
		}
	}

	c.JSON(status, ErrorResponse{Error: err.Error()})
}
