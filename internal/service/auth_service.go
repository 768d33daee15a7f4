package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"spenso/internal/config"
	"spenso/internal/domain"
)

// Claims represents the JWT claims this server consumes. Tokens are
// issued by an external identity service; spenso only validates them.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// AuthService defines the token validation contract.
type AuthService interface {
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	cfg config.JWTConfig
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(cfg config.JWTConfig) AuthService {
	return &authService{cfg: cfg}
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	// Older tokens carry the user ID only in the subject claim.
	if claims.UserID == uuid.Nil && claims.Subject != "" {
		id, perr := uuid.Parse(claims.Subject)
		if perr != nil {
			return nil, domain.ErrUnauthorized
		}
		claims.UserID = id
	}
	if claims.UserID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}
