package auth

import (
	"errors"
	"time"

	"pokerclock/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongScope   = errors.New("token scope not allowed")
)

// Scopes: an operator token may mutate entities, a display token may only
// read state and subscribe to the sync stream.
const (
	ScopeOperator = "operator"
	ScopeDisplay  = "display"
)

type Claims struct {
	Scope   string `json:"scope"`
	Display string `json:"display,omitempty"`
	jwt.RegisteredClaims
}

func GenerateOperatorToken() (string, error) {
	return generateToken(ScopeOperator, "")
}

// GenerateDisplayToken issues a read-only token bound to a named display
// endpoint so a public screen can stream state without operator credentials.
func GenerateDisplayToken(displayName string) (string, error) {
	return generateToken(ScopeDisplay, displayName)
}

func generateToken(scope, displayName string) (string, error) {
	duration := time.Duration(config.GlobalConfig.JWT.Expire) * time.Hour
	claims := Claims{
		Scope:   scope,
		Display: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   scope,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.GlobalConfig.JWT.Secret))
}

func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.GlobalConfig.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func ParseOperatorToken(tokenString string) (*Claims, error) {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Scope != ScopeOperator {
		return nil, ErrWrongScope
	}
	return claims, nil
}

// ParseViewerToken accepts either scope: the operator console is also a viewer.
func ParseViewerToken(tokenString string) (*Claims, error) {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Scope != ScopeOperator && claims.Scope != ScopeDisplay {
		return nil, ErrWrongScope
	}
	return claims, nil
}
