package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sched-engine/internal/auth"
	"github.com/noah-isme/sched-engine/internal/middleware"
)

func claimsFromContext(c *gin.Context) *auth.Claims {
	claims, ok := middleware.CurrentOperator(c)
	if !ok {
		return nil
	}
	return claims
}
