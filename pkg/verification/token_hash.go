package verification

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
)

var ErrHashSecretNotConfigured = errors.New("token hash secret not configured")

// TokenHasher HMACs tokens before they are persisted.
type TokenHasher struct {
	secret []byte
}

func NewTokenHasher(secret string) (*TokenHasher, error) {
	if secret == "" {
		return nil, ErrHashSecretNotConfigured
	}
	return &TokenHasher{secret: []byte(secret)}, nil
}

func (h *TokenHasher) HashToken(token string) string {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(token))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}

func (h *TokenHasher) VerifyTokenHash(token, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(h.HashToken(token)), []byte(storedHash)) == 1
}
