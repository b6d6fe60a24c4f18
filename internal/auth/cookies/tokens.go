package cookies

import (
	"time"

	"github.com/abisalde/accounts-service/pkg/jwt"
)

const (
	RefreshTokenExpiry     = 15 * 24 * time.Hour
	LoginAccessTokenExpiry = 10 * time.Minute
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func GenerateLoginTokenPair(userID int64, email, provider string) (*TokenPair, error) {
	accessToken, err := jwt.GenerateToken(userID, jwt.TokenTypeAccess, email, provider, LoginAccessTokenExpiry)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateToken(userID, jwt.TokenTypeRefresh, email, provider, RefreshTokenExpiry)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
