package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var hmacSecret []byte

// InitAuth stores the shared HMAC secret used to verify auth tokens.
// Token issuance belongs to the identity provider; this server only
// validates signatures and expiry.
func InitAuth(secret string) error {
	if strings.TrimSpace(secret) == "" {
		return errors.New("auth secret cannot be empty")
	}
	hmacSecret = []byte(secret)
	return nil
}

type TokenData struct {
	Sub      string
	Username string
	Exp      int64
}

// ValidateToken parses AND validates the signature locally.
// It returns the data if the token is authentic and unexpired.
func ValidateToken(tokenString string) (*TokenData, error) {
	if hmacSecret == nil {
		return nil, errors.New("auth secret not initialized")
	}

	clean := sanitizeToken(tokenString)
	token, err := jwt.Parse(clean, func(t *jwt.Token) (interface{}, error) {
		return hmacSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims format")
	}

	sub := getValue(claims, "sub")
	if sub == "" {
		return nil, errors.New("token has no subject")
	}

	return &TokenData{
		Sub:      sub,
		Username: getValue(claims, "username"),
		Exp:      getInt64(claims, "exp"),
	}, nil
}

func ParseTokenDataCtx(ctx echo.Context) (*TokenData, error) {
	token := ctx.Request().Header.Get(echo.HeaderAuthorization)
	return ValidateToken(token)
}

func sanitizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
}

func getValue(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}

func getInt64(claims jwt.MapClaims, key string) int64 {
	val, ok := claims[key]
	if !ok {
		return 0
	}
	if f, ok := val.(float64); ok {
		return int64(f)
	}
	if i, ok := val.(int64); ok {
		return i
	}
	return 0
}
