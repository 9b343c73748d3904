package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	sep2errors "sep2utility/internal/shared/errors"
)

func nowUTC() time.Time { return time.Now().UTC() }

// abortWithAppError writes err's mapped status code with a JSON {"error": message} body and
// aborts the chain. CertAuth uses it for failures raised before any route handler runs; the
// 2030.5 handlers write their own error responses.
func abortWithAppError(c *gin.Context, err *sep2errors.AppError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}
