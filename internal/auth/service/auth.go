package service

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"time"

	"github.com/abisalde/accounts-service/internal/auth/cookies"
	"github.com/abisalde/accounts-service/internal/auth/repository"
	"github.com/abisalde/accounts-service/internal/model"
	"github.com/abisalde/accounts-service/pkg/mail"
	"github.com/abisalde/accounts-service/pkg/verification"
	"go.uber.org/zap"
)

const (
	LoginStreamKey     = "login_events"
	LoginEventType     = "user_last_login"
	RefreshCachePrefix = "refresh_token:"
)

type LoginEvent struct {
	UserID    int64     `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
}

type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Take(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Publish(ctx context.Context, stream string, values map[string]interface{}) error
}

type AuthService struct {
	userRepo    repository.UserRepository
	cache       CacheService
	hasher      *verification.TokenHasher
	mailService mail.Mailer
}

func NewAuthService(userRepo repository.UserRepository, cache CacheService, hasher *verification.TokenHasher, mailService mail.Mailer) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		cache:       cache,
		hasher:      hasher,
		mailService: mailService,
	}
}

func (s *AuthService) UpdateLastLogin(ctx context.Context, userID int64) error {
	return s.userRepo.UpdateLoginTime(ctx, userID)
}

// StoreRefreshToken keeps only the HMAC of the refresh token, keyed by user.
func (s *AuthService) StoreRefreshToken(ctx context.Context, userID int64, refreshToken string) error {
	key := RefreshCachePrefix + strconv.FormatInt(userID, 10)
	return s.cache.Set(ctx, key, s.hasher.HashToken(refreshToken), cookies.RefreshTokenExpiry)
}

func (s *AuthService) VerifyRefreshToken(ctx context.Context, userID int64, refreshToken string) (bool, error) {
	key := RefreshCachePrefix + strconv.FormatInt(userID, 10)
	var stored string
	if err := s.cache.Get(ctx, key, &stored); err != nil {
		return false, err
	}
	return s.hasher.VerifyTokenHash(refreshToken, stored), nil
}

func (s *AuthService) PublishLoginEvent(ctx context.Context, userID int64) error {
	event := LoginEvent{
		UserID:    userID,
		Timestamp: time.Now(),
		EventType: LoginEventType,
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal login event: %w", err)
	}

	return s.cache.Publish(ctx, LoginStreamKey, map[string]interface{}{"event": string(eventData)})
}

// SendWelcomeEmail runs in the background; failures are logged, never returned.
func (s *AuthService) SendWelcomeEmail(user *model.User) {
	if s.mailService == nil || user.Email == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		name := user.FirstName
		if name == "" {
			name = "there"
		}
		body := fmt.Sprintf("<p>Hi %s,</p><p>Your account was created with %s sign-in.</p>",
			html.EscapeString(name), html.EscapeString(string(user.Provider)))
		if err := s.mailService.SendHTMLEmail(ctx, user.Email, "Welcome aboard", body); err != nil {
			zap.L().Warn("welcome email failed", zap.Int64("user_id", user.ID), zap.Error(err))
		}
	}()
}
