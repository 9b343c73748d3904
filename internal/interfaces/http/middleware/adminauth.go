package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sep2utility/internal/infrastructure/auth"
	"sep2utility/internal/shared/authorization"
	"sep2utility/internal/shared/constants"
	"sep2utility/internal/shared/logger"
	"sep2utility/internal/shared/utils"
)

// AdminAuth requires a valid JWT bearer access token and stashes its role on the gin context
// for authorization.RequireAdmin to check. Spec.md §6.2 brackets the admin surface's auth
// mechanism as out of scope beyond "some admin auth mechanism"; this reuses the JWTService
// built for the rest of the module rather than inventing a second credential scheme.
func AdminAuth(jwtService *auth.JWTService, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtService.Verify(parts[1])
		if err != nil {
			log.Warnw("failed to verify admin token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}
		if claims.TokenType != auth.TokenTypeAccess {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid token type")
			c.Abort()
			return
		}

		c.Set("user_uuid", claims.UserUUID)
		c.Set(constants.ContextKeyUserRole, string(claims.Role))
		c.Next()
	}
}

// RequireAdmin re-exports authorization.RequireAdmin so router wiring only needs to import
// this package.
func RequireAdmin() gin.HandlerFunc { return authorization.RequireAdmin() }
