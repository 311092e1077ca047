package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sched-engine/internal/auth"
)

func TestRBACAllowsListedRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, token := newTestAuthService(auth.RoleAdmin)

	w := httptest.NewRecorder()
	r := gin.New()
	r.Use(JWT(svc))
	r.POST("/admin-only", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodPost, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRBACRejectsOtherRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, token := newTestAuthService(auth.RoleReviewer)

	w := httptest.NewRecorder()
	r := gin.New()
	r.Use(JWT(svc))
	r.POST("/admin-only", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodPost, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRBACRejectsMissingClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	r := gin.New()
	r.POST("/admin-only", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodPost, "/admin-only", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
