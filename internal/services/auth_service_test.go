package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"kupanga_backend/internal/apperrors"
	"kupanga_backend/internal/auth"
	"kupanga_backend/internal/models"
	"kupanga_backend/internal/repositories"
	"kupanga_backend/internal/services/dto"
	"kupanga_backend/internal/storage"
)

type authFixture struct {
	db      *gorm.DB
	svc     AuthService
	tokens  *auth.TokenManager
	refresh RefreshTokenService
	mailer  *recordingMailer
	store   *storage.MemoryStorage
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db := newTestDB(t)
	mailer := &recordingMailer{}
	store := storage.NewMemoryStorage("https://cdn.example.com")

	secret := base64.StdEncoding.EncodeToString([]byte("kupanga-test-signing-key-0123456789"))
	tokens, err := auth.NewTokenManager(secret, 15*time.Minute)
	require.NoError(t, err)

	userRepo := repositories.NewUserRepository(db)
	userService := NewUserService(userRepo, store)
	refresh := NewRefreshTokenService(repositories.NewRefreshTokenRepository(db), 14*24*time.Hour)
	reset := NewPasswordResetService(db, userRepo, repositories.NewPasswordResetTokenRepository(db), mailer, 15*time.Minute, testFrontendURL)

	return &authFixture{
		db:      db,
		svc:     NewAuthService(userRepo, userService, tokens, refresh, reset, mailer),
		tokens:  tokens,
		refresh: refresh,
		mailer:  mailer,
		store:   store,
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)

	resp, err := f.svc.Register(&dto.RegisterRequest{Email: "Marie@Example.com", Role: "tenant"})
	require.NoError(t, err)
	assert.Equal(t, "marie@example.com", resp.Email)
	assert.Equal(t, models.RoleTenant, resp.Role)
	assert.False(t, resp.HasCompletedProfile)

	// The provisional password from the email opens the account.
	sent := waitForMail(t, f.mailer, "provisional", 1)
	assert.Equal(t, "marie@example.com", sent[0].To)

	login, err := f.svc.Login(&dto.LoginRequest{Email: "marie@example.com", Password: sent[0].Payload})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	createUser(t, f.db, "marie@example.com", models.RoleOwner)

	_, err := f.svc.Register(&dto.RegisterRequest{Email: "MARIE@example.com", Role: "OWNER"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestAuthService_RegisterRejectedRoles(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)

	_, err := f.svc.Register(&dto.RegisterRequest{Email: "a@example.com", Role: "ADMIN"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidUserRole)

	_, err = f.svc.Register(&dto.RegisterRequest{Email: "a@example.com", Role: "SUPERUSER"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidUserRole)
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	user := createUser(t, f.db, "jean@example.com", models.RoleOwner)

	result, err := f.svc.Login(&dto.LoginRequest{Email: "Jean@EXAMPLE.com", Password: testPassword})
	require.NoError(t, err)

	claims, err := f.tokens.Parse(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.Email, claims.Subject)
	assert.Equal(t, string(models.RoleOwner), claims.Role)

	token, err := f.refresh.Resolve(result.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, token.UserID)
}

func TestAuthService_LoginFailures(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	user := createUser(t, f.db, "jean@example.com", models.RoleOwner)

	_, err := f.svc.Login(&dto.LoginRequest{Email: "jean@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.Login(&dto.LoginRequest{Email: "ghost@example.com", Password: testPassword})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	// A failed login issues nothing: no refresh token row exists.
	_, err = repositories.NewRefreshTokenRepository(f.db).FindByUserID(user.ID)
	assert.ErrorIs(t, err, repositories.ErrRefreshTokenNotFound)
}

func TestAuthService_LoginInvalidatesPreviousSession(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	createUser(t, f.db, "jean@example.com", models.RoleOwner)

	first, err := f.svc.Login(&dto.LoginRequest{Email: "jean@example.com", Password: testPassword})
	require.NoError(t, err)
	second, err := f.svc.Login(&dto.LoginRequest{Email: "jean@example.com", Password: testPassword})
	require.NoError(t, err)

	_, err = f.svc.Refresh(first.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.svc.Refresh(second.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_Refresh(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	user := createUser(t, f.db, "jean@example.com", models.RoleOwner)

	login, err := f.svc.Login(&dto.LoginRequest{Email: user.Email, Password: testPassword})
	require.NoError(t, err)

	accessToken, err := f.svc.Refresh(login.RefreshToken)
	require.NoError(t, err)

	claims, err := f.tokens.Parse(accessToken)
	require.NoError(t, err)
	assert.Equal(t, user.Email, claims.Subject)
}

func TestAuthService_RefreshRejectsRevokedAndExpired(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	user := createUser(t, f.db, "jean@example.com", models.RoleOwner)

	login, err := f.svc.Login(&dto.LoginRequest{Email: user.Email, Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, f.refresh.RevokeByToken(login.RefreshToken))
	_, err = f.svc.Refresh(login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// Expired rows resolve but never pass validation.
	require.NoError(t, repositories.NewRefreshTokenRepository(f.db).Create(&models.RefreshToken{
		UserID:     user.ID,
		Token:      "expired-token",
		Expiration: time.Now().Add(-time.Minute),
	}))
	_, err = f.svc.Refresh("expired-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.svc.Refresh("no-such-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	user := createUser(t, f.db, "jean@example.com", models.RoleOwner)

	login, err := f.svc.Login(&dto.LoginRequest{Email: user.Email, Password: testPassword})
	require.NoError(t, err)

	assert.Equal(t, MsgLoggedOut, f.svc.Logout(login.RefreshToken))

	_, err = f.svc.Refresh(login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// Logout never fails, with or without a live session.
	assert.Equal(t, MsgLoggedOut, f.svc.Logout(login.RefreshToken))
	assert.Equal(t, MsgLoggedOut, f.svc.Logout(""))
	assert.Equal(t, MsgLoggedOut, f.svc.Logout("no-such-token"))
}

func TestAuthService_ResetPasswordFlow(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	user := createUser(t, f.db, "jean@example.com", models.RoleOwner)

	login, err := f.svc.Login(&dto.LoginRequest{Email: user.Email, Password: testPassword})
	require.NoError(t, err)

	token, err := f.svc.ForgotPassword(user.Email)
	require.NoError(t, err)

	message, err := f.svc.ResetPassword(token, "brand-new-password")
	require.NoError(t, err)
	assert.Equal(t, MsgPasswordUpdated, message)

	// Sessions from before the reset are dead.
	_, err = f.svc.Refresh(login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.svc.Login(&dto.LoginRequest{Email: user.Email, Password: testPassword})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.Login(&dto.LoginRequest{Email: user.Email, Password: "brand-new-password"})
	assert.NoError(t, err)
}

func TestAuthService_CompleteProfile(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	createUser(t, f.db, "marie@example.com", models.RoleTenant)

	avatarBytes := []byte("fake-png-bytes")
	result, err := f.svc.CompleteProfile(context.Background(), &dto.CompleteProfileRequest{
		Email:     "marie@example.com",
		Password:  testPassword,
		FirstName: "Marie",
		LastName:  "Curie",
		Role:      "OWNER",
	}, &AvatarUpload{
		Reader:      bytes.NewReader(avatarBytes),
		Size:        int64(len(avatarBytes)),
		ContentType: "image/png",
		Filename:    "portrait.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "Marie", result.User.FirstName)
	assert.Equal(t, "Curie", result.User.LastName)
	assert.Equal(t, models.RoleOwner, result.User.Role)
	assert.True(t, result.User.HasCompletedProfile)
	assert.NotEmpty(t, result.User.AvatarURL)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	// The avatar bytes landed in the blob store.
	stored, ok := f.store.Get("avatars/" + result.User.ID + ".png")
	require.True(t, ok)
	assert.Equal(t, avatarBytes, stored)

	waitForMail(t, f.mailer, "welcome", 1)

	updated, err := repositories.NewUserRepository(f.db).FindByID(result.User.ID)
	require.NoError(t, err)
	assert.True(t, updated.HasCompletedProfile)
	assert.Equal(t, models.RoleOwner, updated.Role)
}

func TestAuthService_CompleteProfileFailures(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	createUser(t, f.db, "marie@example.com", models.RoleTenant)

	req := func(password, role string) *dto.CompleteProfileRequest {
		return &dto.CompleteProfileRequest{
			Email:     "marie@example.com",
			Password:  password,
			FirstName: "Marie",
			LastName:  "Curie",
			Role:      role,
		}
	}

	_, err := f.svc.CompleteProfile(context.Background(), req("wrong", "OWNER"), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.CompleteProfile(context.Background(), req(testPassword, "ADMIN"), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidUserRole)

	_, err = f.svc.CompleteProfile(context.Background(), &dto.CompleteProfileRequest{
		Email: "ghost@example.com", Password: testPassword, FirstName: "G", LastName: "H", Role: "OWNER",
	}, nil)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	// None of the failures completed the profile.
	user, err := repositories.NewUserRepository(f.db).FindByEmail("marie@example.com")
	require.NoError(t, err)
	assert.False(t, user.HasCompletedProfile)
	assert.Equal(t, models.RoleTenant, user.Role)
}
