package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sched-engine/internal/apperr"
	"github.com/noah-isme/sched-engine/internal/auth"
	"github.com/noah-isme/sched-engine/internal/response"
)

// ContextOperatorKey is the gin context key storing the validated
// operator claims.
const ContextOperatorKey = "currentOperator"

// JWT protects routes by requiring a valid operator access token.
func JWT(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, apperr.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, apperr.Clone(apperr.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextOperatorKey, claims)
		c.Next()
	}
}

// OptionalJWT attaches claims when present but never blocks the request.
func OptionalJWT(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextOperatorKey, claims)
		c.Next()
	}
}

// CurrentOperator reads the claims JWT stored earlier, if any.
func CurrentOperator(c *gin.Context) (*auth.Claims, bool) {
	value, ok := c.Get(ContextOperatorKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}
