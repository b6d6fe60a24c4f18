package jwt

import (
	"errors"
	"fmt"
	"os"
	"time"

	customErrors "github.com/abisalde/accounts-service/internal/errors"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID    int64  `json:"userId"`
	UserEmail string `json:"email"`
	Provider  string `json:"provider,omitempty"`
	Type      string `json:"type"` //access or refresh
	jwt.RegisteredClaims
}

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	issuer = "accounts-service"
)

func GetJWTSecret() (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", customErrors.ErrJWTSecretNotConfigured
	}
	return secret, nil
}

func GenerateToken(userID int64, tokenType, email, provider string, expiration time.Duration) (string, error) {
	if tokenType != TokenTypeAccess && tokenType != TokenTypeRefresh {
		return "", customErrors.ErrInvalidTokenType
	}
	secret, err := GetJWTSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		Type:      tokenType,
		UserEmail: email,
		Provider:  provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func ValidateToken(tokenString string) (*Claims, error) {
	secret, err := GetJWTSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, customErrors.ErrExpiredToken
		}
		return nil, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, customErrors.ErrInvalidToken
	}

	if claims.Type != TokenTypeAccess && claims.Type != TokenTypeRefresh {
		return nil, customErrors.ErrInvalidTokenType
	}

	return claims, nil
}

func (c *Claims) IsAccessToken() bool {
	return c.Type == TokenTypeAccess
}

func (c *Claims) IsRefreshToken() bool {
	return c.Type == TokenTypeRefresh
}
