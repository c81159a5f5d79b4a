package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aidar/claims-engine/internal/domain"
)

// Claims represents JWT claims issued by the session service
type Claims struct {
	Identity string      `json:"identity"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Principal returns the caller identity carried by the token
func (c *Claims) Principal() domain.Principal {
	return domain.Principal{Identity: c.Identity, Role: c.Role}
}

// AuthService validates tokens at the trust boundary
type AuthService struct {
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// IssueToken signs a token for an already authenticated principal.
// Used by the session service sharing the secret and by tests.
func (s *AuthService) IssueToken(principal domain.Principal) (string, error) {
	if principal.Identity == "" {
		return "", domain.ErrUnauthorized
	}
	if principal.Role != domain.RoleAdmin && principal.Role != domain.RoleAdjuster {
		return "", fmt.Errorf("%w: unknown role %q", domain.ErrUnauthorized, principal.Role)
	}

	claims := &Claims{
		Identity: principal.Identity,
		Role:     principal.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Identity,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Identity == "" {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
