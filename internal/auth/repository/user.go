package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	customErrors "github.com/abisalde/accounts-service/internal/errors"
	"github.com/abisalde/accounts-service/internal/model"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	FindByOAuthID(ctx context.Context, provider model.OAuthProvider, oauthID string) (*model.User, error)
	CreateUserFromOAuth(ctx context.Context, provider model.OAuthProvider, userInfo *model.OAuthUserResponse) (*model.User, error)
	UpdateLoginTime(ctx context.Context, userID int64) error
}

const userColumns = `id, email, provider, oauth_id, first_name, last_name, is_email_verified, created_at, updated_at, last_login_at`

type userRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, normalizeEmail(email))
}

func (r *userRepository) FindByOAuthID(ctx context.Context, provider model.OAuthProvider, oauthID string) (*model.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE provider = ? AND oauth_id = ?`, string(provider), oauthID)
}

func (r *userRepository) CreateUserFromOAuth(ctx context.Context, provider model.OAuthProvider, userInfo *model.OAuthUserResponse) (*model.User, error) {
	now := r.now()
	user := &model.User{
		Email:           normalizeEmail(userInfo.Email),
		Provider:        provider,
		OauthID:         userInfo.ID,
		FirstName:       userInfo.FirstName,
		LastName:        userInfo.LastName,
		IsEmailVerified: userInfo.IsEmailVerified,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, provider, oauth_id, first_name, last_name, is_email_verified, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Email, string(user.Provider), user.OauthID, user.FirstName, user.LastName,
		user.IsEmailVerified, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, customErrors.Wrap(customErrors.ErrEmailExists, err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id
	return user, nil
}

func (r *userRepository) UpdateLoginTime(ctx context.Context, userID int64) error {
	now := r.now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ?, updated_at = ? WHERE id = ?`, now, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return customErrors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) queryOne(ctx context.Context, query string, args ...any) (*model.User, error) {
	var (
		u         model.User
		provider  string
		lastLogin sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Email, &provider, &u.OauthID, &u.FirstName, &u.LastName,
		&u.IsEmailVerified, &u.CreatedAt, &u.UpdatedAt, &lastLogin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customErrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	u.Provider = model.OAuthProvider(provider)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isUniqueViolation covers MySQL error 1062 and SQLite's constraint message.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Error 1062") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
