// Package auth implements operator authentication for the engine's
// mutating HTTP routes (generate/publish/archive/clone/delete), ported
// from the teacher's internal/service/auth_service.go and trimmed to the
// engine's narrower operator model: no refresh-token rotation, no audit
// log, just login and bearer-token validation.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sched-engine/internal/apperr"
)

// Role is an operator's permission level.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleReviewer Role = "REVIEWER"
)

// Operator is an engine user permitted to trigger generate/publish/
// archive/clone/delete over the HTTP surface.
type Operator struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Active       bool
}

// OperatorStore is the narrow read interface auth needs, mirroring the
// teacher's local authUserRepository interface rather than pulling in
// the full ports.Repository contract.
type OperatorStore interface {
	FindOperatorByEmail(ctx context.Context, email string) (*Operator, error)
}

// Claims is the JWT payload issued to an authenticated operator.
type Claims struct {
	OperatorID string `json:"operator_id"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	jwt.RegisteredClaims
}

// Config configures token issuance and validation.
type Config struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// Service issues and validates operator bearer tokens.
type Service struct {
	store  OperatorStore
	logger *zap.Logger
	config Config
}

// New constructs an auth Service.
func New(store OperatorStore, logger *zap.Logger, config Config) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, config: config}
}

// LoginResult carries the issued token and its expiry.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Operator    Operator
}

// Login authenticates an operator by email/password and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	operator, err := s.store.FindOperatorByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, "failed to look up operator")
	}
	if operator == nil {
		return nil, apperr.Clone(apperr.ErrInvalidCredentials, "invalid email or password")
	}
	if !operator.Active {
		return nil, apperr.Clone(apperr.ErrForbidden, "operator account is inactive")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Clone(apperr.ErrInvalidCredentials, "invalid email or password")
	}

	token, expiresAt, err := s.issueToken(*operator)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, "failed to issue access token")
	}

	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt, Operator: *operator}, nil
}

// ValidateToken parses and validates a bearer token, returning its claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrUnauthorized.Code, apperr.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperr.Clone(apperr.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *Service) issueToken(operator Operator) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiration)
	claims := &Claims{
		OperatorID: operator.ID,
		Email:      operator.Email,
		Role:       operator.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   operator.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
