package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/abisalde/accounts-service/internal/database"
	customErrors "github.com/abisalde/accounts-service/internal/errors"
	"github.com/abisalde/accounts-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) UserRepository {
	t.Helper()
	db, err := database.Open(database.DialectSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return NewUserRepository(db.SQLDB)
}

func googleProfile() *model.OAuthUserResponse {
	return &model.OAuthUserResponse{
		ID:              "g-123",
		Email:           " Ada@Example.com ",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		IsEmailVerified: true,
	}
}

func TestCreateUserFromOAuth_AndFind(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.CreateUserFromOAuth(ctx, model.OAuthProviderGoogle, googleProfile())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "ada@example.com", created.Email)

	found, err := repo.FindByOAuthID(ctx, model.OAuthProviderGoogle, "g-123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, model.OAuthProviderGoogle, found.Provider)
	assert.Equal(t, "Ada", found.FirstName)
	assert.True(t, found.IsEmailVerified)
	assert.Nil(t, found.LastLoginAt)

	byEmail, err := repo.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
}

func TestFindByOAuthID_NotFound(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.CreateUserFromOAuth(ctx, model.OAuthProviderGoogle, googleProfile())
	require.NoError(t, err)

	_, err = repo.FindByOAuthID(ctx, model.OAuthProviderGithub, "g-123")
	assert.ErrorIs(t, err, customErrors.ErrUserNotFound)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, customErrors.ErrUserNotFound)
}

func TestCreateUserFromOAuth_DuplicateEmail(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.CreateUserFromOAuth(ctx, model.OAuthProviderGoogle, googleProfile())
	require.NoError(t, err)

	other := googleProfile()
	other.ID = "gh-1"
	_, err = repo.CreateUserFromOAuth(ctx, model.OAuthProviderGithub, other)
	assert.ErrorIs(t, err, customErrors.ErrEmailExists)
}

func TestUpdateLoginTime(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.CreateUserFromOAuth(ctx, model.OAuthProviderGoogle, googleProfile())
	require.NoError(t, err)

	require.NoError(t, repo.UpdateLoginTime(ctx, created.ID))

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)

	assert.ErrorIs(t, repo.UpdateLoginTime(ctx, created.ID+100), customErrors.ErrUserNotFound)
}
