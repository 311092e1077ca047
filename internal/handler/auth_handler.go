package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sched-engine/internal/apperr"
	"github.com/noah-isme/sched-engine/internal/auth"
	"github.com/noah-isme/sched-engine/internal/dto"
	"github.com/noah-isme/sched-engine/internal/response"
)

// AuthHandler wires HTTP endpoints to the operator auth service.
type AuthHandler struct {
	service  *auth.Service
	validate *validator.Validate
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{service: svc, validate: validator.New()}
}

// Login godoc
// @Summary Authenticate an operator
// @Description Exchange email/password for a bearer access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Wrap(err, apperr.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, apperr.Wrap(err, apperr.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.LoginResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt.Format(http.TimeFormat),
		OperatorID:  result.Operator.ID,
		Role:        string(result.Operator.Role),
	})
}

// Me godoc
// @Summary Get the authenticated operator
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, apperr.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"operatorId": claims.OperatorID,
		"email":      claims.Email,
		"role":       claims.Role,
	})
}
