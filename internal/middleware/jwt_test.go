package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sched-engine/internal/auth"
)

type operatorStoreStub struct {
	operator *auth.Operator
}

func (s *operatorStoreStub) FindOperatorByEmail(ctx context.Context, email string) (*auth.Operator, error) {
	return s.operator, nil
}

func newTestAuthService(role auth.Role) (*auth.Service, string) {
	hash, _ := auth.HashPassword("s3cret")
	store := &operatorStoreStub{operator: &auth.Operator{
		ID: "op-1", Email: "reviewer@example.com", Name: "Reviewer",
		PasswordHash: hash, Role: role, Active: true,
	}}
	svc := auth.New(store, nil, auth.Config{Secret: "test-secret", Expiration: time.Hour, Issuer: "sched-engine-test"})
	result, err := svc.Login(context.Background(), "reviewer@example.com", "s3cret")
	if err != nil {
		panic(err)
	}
	return svc, result.AccessToken
}

func TestJWTMissingHeaderRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestAuthService(auth.RoleReviewer)

	w := httptest.NewRecorder()
	r := gin.New()
	r.Use(JWT(svc))
	r.GET("/secured", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/secured", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTValidTokenSetsOperator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, token := newTestAuthService(auth.RoleReviewer)

	var captured *auth.Claims
	w := httptest.NewRecorder()
	r := gin.New()
	r.Use(JWT(svc))
	r.GET("/secured", func(c *gin.Context) {
		claims, ok := CurrentOperator(c)
		require.True(t, ok)
		captured = claims
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest(http.MethodGet, "/secured", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "op-1", captured.OperatorID)
}

func TestOptionalJWTNeverAborts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestAuthService(auth.RoleReviewer)

	w := httptest.NewRecorder()
	r := gin.New()
	r.Use(OptionalJWT(svc))
	r.GET("/open", func(c *gin.Context) {
		_, ok := CurrentOperator(c)
		require.False(t, ok)
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
