package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/emre/resitdesk/internal/pkg/apperrors"
)

// TokenVerifierConfig defines verification settings. Token issuance lives in the
// external identity service; this package only verifies what it produced.
type TokenVerifierConfig struct {
	SecretKey string
	Issuer    string
}

// TokenVerifier validates bearer tokens issued by the external auth service.
type TokenVerifier struct {
	config TokenVerifierConfig
}

// NewTokenVerifier creates a new TokenVerifier
func NewTokenVerifier(config TokenVerifierConfig) *TokenVerifier {
	return &TokenVerifier{config: config}
}

// Claims is the verified caller identity carried by a token: who is calling
// and in which role.
type Claims struct {
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	RoleType string `json:"roleType"`
	jwt.RegisteredClaims
}

// ValidateToken parses and validates a token, returning its claims.
func (v *TokenVerifier) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.config.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}
	if v.config.Issuer != "" {
		if iss, _ := claims.GetIssuer(); iss != v.config.Issuer {
			return nil, apperrors.ErrTokenInvalid
		}
	}
	return claims, nil
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", apperrors.ErrInvalidFormat
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.ErrInvalidFormat
	}
	return strings.TrimSpace(parts[1]), nil
}
