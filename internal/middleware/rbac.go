package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sched-engine/internal/apperr"
	"github.com/noah-isme/sched-engine/internal/auth"
	"github.com/noah-isme/sched-engine/internal/response"
)

// RBAC enforces that the authenticated operator holds one of the allowed
// roles; JWT must run first so claims are already in the gin context.
func RBAC(allowed ...auth.Role) gin.HandlerFunc {
	allowedRoles := make(map[auth.Role]struct{}, len(allowed))
	for _, r := range allowed {
		allowedRoles[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := CurrentOperator(c)
		if !ok {
			response.Error(c, apperr.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowedRoles[claims.Role]; !ok {
			response.Error(c, apperr.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin restricts a route to ADMIN operators.
func RequireAdmin() gin.HandlerFunc {
	return RBAC(auth.RoleAdmin)
}
