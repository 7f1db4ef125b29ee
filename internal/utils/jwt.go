package utils

import (
	"blog-server/internal/config"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer    = "blog-server"
	tokenTypeLogin = "login"
)

var errEmptySecret = errors.New("jwt secret is not configured")

// LoginClaims 登录会话凭证
type LoginClaims struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Type     string `json:"type"` // "login"
	jwt.RegisteredClaims
}

func getSecret() ([]byte, error) {
	secret := config.Get().JWT.Secret
	if secret == "" {
		return nil, errEmptySecret
	}
	return []byte(secret), nil
}

func GenerateLoginToken(id uint, username string, role string, duration time.Duration) (string, error) {
	secret, err := getSecret()
	if err != nil {
		return "", err
	}
	claims := LoginClaims{
		ID:       id,
		Username: username,
		Role:     role,
		Type:     tokenTypeLogin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseLoginToken(tokenString string) (*LoginClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &LoginClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getSecret()
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*LoginClaims); ok && token.Valid {
		if claims.Type != tokenTypeLogin {
			return nil, errors.New("invalid token type")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
