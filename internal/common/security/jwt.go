package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// JWTManager issues and verifies HS256 tokens. It is constructed once in the
// composition root and injected everywhere a token is minted or inspected.
type JWTManager struct {
	tokenAuth *jwtauth.JWTAuth
	expiry    time.Duration
}

func NewJWTManager(key []byte, expiry time.Duration) *JWTManager {
	return &JWTManager{
		tokenAuth: jwtauth.New("HS256", key, nil),
		expiry:    expiry,
	}
}

// TokenAuth exposes the underlying verifier for the jwtauth middleware.
func (m *JWTManager) TokenAuth() *jwtauth.JWTAuth {
	return m.tokenAuth
}

func (m *JWTManager) Expiry() time.Duration {
	return m.expiry
}

func (m *JWTManager) GenerateToken(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     now.Add(m.expiry).Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := m.tokenAuth.Encode(claims)
	return tokenString, err
}

// Helper functions to extract claims, used in middleware and services.

func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

// GetExpiryFromClaims returns the token's expiry instant. jwtauth surfaces
// "exp" as time.Time after verification; a raw numeric claim is handled too.
func GetExpiryFromClaims(claims map[string]interface{}) (time.Time, error) {
	switch exp := claims["exp"].(type) {
	case time.Time:
		return exp, nil
	case float64:
		return time.Unix(int64(exp), 0), nil
	case int64:
		return time.Unix(exp, 0), nil
	default:
		return time.Time{}, errors.New("exp claim is missing or has an unexpected type")
	}
}
