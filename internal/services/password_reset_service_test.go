package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kupanga_backend/internal/apperrors"
	"kupanga_backend/internal/auth"
	"kupanga_backend/internal/models"
	"kupanga_backend/internal/repositories"
)

const testFrontendURL = "https://app.example.com"

func newResetFixture(t *testing.T) (PasswordResetService, *gorm.DB, *recordingMailer) {
	t.Helper()

	db := newTestDB(t)
	mailer := &recordingMailer{}
	svc := NewPasswordResetService(
		db,
		repositories.NewUserRepository(db),
		repositories.NewPasswordResetTokenRepository(db),
		mailer,
		15*time.Minute,
		testFrontendURL,
	)
	return svc, db, mailer
}

func TestPasswordResetService_Request(t *testing.T) {
	t.Parallel()

	svc, db, mailer := newResetFixture(t)
	user := createUser(t, db, "jean@example.com", models.RoleOwner)

	token, err := svc.Request("Jean@Example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	stored, err := repositories.NewPasswordResetTokenRepository(db).FindByToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.UserID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), stored.ExpirationDate, 5*time.Second)

	sent := waitForMail(t, mailer, "reset", 1)
	assert.Equal(t, user.Email, sent[0].To)
	assert.Equal(t, testFrontendURL+"/reset-password?token="+token, sent[0].Payload)
}

func TestPasswordResetService_RequestUnknownEmail(t *testing.T) {
	t.Parallel()

	svc, _, mailer := newResetFixture(t)

	_, err := svc.Request("ghost@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Empty(t, mailer.byKind("reset"))
}

func TestPasswordResetService_Consume(t *testing.T) {
	t.Parallel()

	svc, db, mailer := newResetFixture(t)
	user := createUser(t, db, "jean@example.com", models.RoleOwner)

	token, err := svc.Request(user.Email)
	require.NoError(t, err)

	userID, err := svc.Consume(token, "new-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	updated, err := repositories.NewUserRepository(db).FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("new-password", updated.PasswordHash))
	assert.False(t, auth.CheckPasswordHash(testPassword, updated.PasswordHash))

	waitForMail(t, mailer, "updated", 1)

	// Single use: the same token is spent.
	_, err = svc.Consume(token, "another-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestPasswordResetService_ConsumeExpiredToken(t *testing.T) {
	t.Parallel()

	svc, db, _ := newResetFixture(t)
	user := createUser(t, db, "jean@example.com", models.RoleOwner)

	repo := repositories.NewPasswordResetTokenRepository(db)
	require.NoError(t, repo.Create(&models.PasswordResetToken{
		UserID:         user.ID,
		Token:          "expired-token",
		ExpirationDate: time.Now().Add(-time.Minute),
	}))

	_, err := svc.Consume("expired-token", "new-password")
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	// Nothing changed: password untouched, token row kept.
	updated, err := repositories.NewUserRepository(db).FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash(testPassword, updated.PasswordHash))

	_, err = repo.FindByToken("expired-token")
	assert.NoError(t, err)
}

func TestPasswordResetService_ConsumeWeakPassword(t *testing.T) {
	t.Parallel()

	svc, db, _ := newResetFixture(t)
	user := createUser(t, db, "jean@example.com", models.RoleOwner)

	token, err := svc.Request(user.Email)
	require.NoError(t, err)

	_, err = svc.Consume(token, "short")
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

	// A rejected password does not spend the token.
	_, err = svc.Consume(token, "long-enough")
	assert.NoError(t, err)
}

func TestPasswordResetService_ConsumeUnknownToken(t *testing.T) {
	t.Parallel()

	svc, _, _ := newResetFixture(t)

	_, err := svc.Consume("no-such-token", "new-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestPasswordResetService_CleanExpired(t *testing.T) {
	t.Parallel()

	svc, db, _ := newResetFixture(t)
	user := createUser(t, db, "jean@example.com", models.RoleOwner)

	repo := repositories.NewPasswordResetTokenRepository(db)
	require.NoError(t, repo.Create(&models.PasswordResetToken{
		UserID:         user.ID,
		Token:          "stale",
		ExpirationDate: time.Now().Add(-time.Hour),
	}))
	live, err := svc.Request(user.Email)
	require.NoError(t, err)

	require.NoError(t, svc.CleanExpired())

	_, err = repo.FindByToken("stale")
	assert.ErrorIs(t, err, repositories.ErrResetTokenNotFound)
	_, err = repo.FindByToken(live)
	assert.NoError(t, err)
}
