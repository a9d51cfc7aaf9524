package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"kupanga_backend/internal/apperrors"
	"kupanga_backend/internal/auth"
	"kupanga_backend/internal/email"
	"kupanga_backend/internal/logger"
	"kupanga_backend/internal/models"
	"kupanga_backend/internal/repositories"
	"kupanga_backend/internal/services/dto"
)

// Confirmation messages returned to the client.
const (
	MsgLoggedOut       = "Successfully logged out"
	MsgPasswordUpdated = "Password updated"
	MsgResetRequested  = "Password reset email sent"
)

// AuthService orchestrates the session lifecycle: account provisioning,
// login, refresh, logout and the password-reset flows.
type AuthService interface {
	// Register creates an account from email+role with a provisional
	// password sent by email. The account is claimed via CompleteProfile.
	Register(req *dto.RegisterRequest) (*dto.UserResponse, error)

	// Login verifies credentials and returns an access token plus a fresh
	// refresh token. The handler turns the latter into the cookie.
	Login(req *dto.LoginRequest) (*dto.LoginResult, error)

	// Refresh mints a new access token from a valid refresh token. The
	// refresh token itself is reused until its own expiry or logout.
	Refresh(refreshTokenValue string) (string, error)

	// Logout revokes the refresh token when one is presented. Safe to call
	// without a session: an absent or unknown token still logs out.
	Logout(refreshTokenValue string) string

	ForgotPassword(emailAddr string) (string, error)
	ResetPassword(tokenValue, newPassword string) (string, error)

	// CompleteProfile claims a provisioned account: proves the provisional
	// password, sets names/role/avatar and leaves the caller logged in.
	CompleteProfile(ctx context.Context, req *dto.CompleteProfileRequest, avatar *AvatarUpload) (*dto.CompleteProfileResult, error)
}

type authService struct {
	users         repositories.UserRepository
	userService   UserService
	tokens        *auth.TokenManager
	refreshTokens RefreshTokenService
	passwordReset PasswordResetService
	mailer        email.Provider
}

func NewAuthService(
	users repositories.UserRepository,
	userService UserService,
	tokens *auth.TokenManager,
	refreshTokens RefreshTokenService,
	passwordReset PasswordResetService,
	mailer email.Provider,
) AuthService {
	return &authService{
		users:         users,
		userService:   userService,
		tokens:        tokens,
		refreshTokens: refreshTokens,
		passwordReset: passwordReset,
		mailer:        mailer,
	}
}

func (s *authService) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	emailAddr := NormalizeEmail(req.Email)

	role, ok := models.ParseRole(strings.ToUpper(req.Role))
	if !ok || !role.SelfServiceRole() {
		return nil, apperrors.ErrInvalidUserRole
	}

	exists, err := s.users.ExistsByEmail(emailAddr)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	provisional := provisionalPassword()
	hash, err := auth.HashPassword(provisional)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        emailAddr,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	sendAsync("provisional password email", user.Email, func() error {
		return s.mailer.SendProvisionalPassword(user.Email, provisional)
	})

	logger.Info("user account provisioned", "email", user.Email, "role", user.Role)
	return dto.NewUserResponse(user), nil
}

func (s *authService) Login(req *dto.LoginRequest) (*dto.LoginResult, error) {
	user, err := s.userService.GetByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("login failed: password mismatch", "email", user.Email)
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Generate(user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := s.refreshTokens.Issue(user)
	if err != nil {
		return nil, err
	}

	logger.Info("user logged in", "email", user.Email)
	return &dto.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) Refresh(refreshTokenValue string) (string, error) {
	token, err := s.refreshTokens.Resolve(refreshTokenValue)
	if err != nil {
		return "", err
	}

	if !token.Valid(time.Now()) {
		return "", apperrors.ErrUnauthorized
	}

	user, err := s.users.FindByID(token.UserID)
	if err != nil {
		return "", apperrors.ErrUnauthorized
	}

	accessToken, err := s.tokens.Generate(user.Email, string(user.Role))
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	return accessToken, nil
}

func (s *authService) Logout(refreshTokenValue string) string {
	if refreshTokenValue != "" {
		// A missing or already revoked row is not a failed logout.
		if err := s.refreshTokens.RevokeByToken(refreshTokenValue); err != nil {
			logger.Debug("logout with unknown refresh token", "error", err.Error())
		}
	}
	return MsgLoggedOut
}

func (s *authService) ForgotPassword(emailAddr string) (string, error) {
	return s.passwordReset.Request(emailAddr)
}

func (s *authService) ResetPassword(tokenValue, newPassword string) (string, error) {
	userID, err := s.passwordReset.Consume(tokenValue, newPassword)
	if err != nil {
		return "", err
	}

	// Sessions opened with the old password die with it.
	if err := s.refreshTokens.RevokeAllForUser(userID); err != nil {
		return "", err
	}

	return MsgPasswordUpdated, nil
}

func (s *authService) CompleteProfile(ctx context.Context, req *dto.CompleteProfileRequest, avatar *AvatarUpload) (*dto.CompleteProfileResult, error) {
	user, err := s.userService.GetByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	role, ok := models.ParseRole(strings.ToUpper(req.Role))
	if !ok || !role.SelfServiceRole() {
		return nil, apperrors.ErrInvalidUserRole
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Role = role
	user.HasCompletedProfile = true

	if avatar != nil {
		url, err := s.userService.UpdateAvatar(ctx, user.ID, avatar)
		if err != nil {
			return nil, err
		}
		user.AvatarURL = url
	}

	if err := s.users.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// A completed profile leaves the caller authenticated.
	login, err := s.Login(&dto.LoginRequest{Email: user.Email, Password: req.Password})
	if err != nil {
		return nil, err
	}

	sendAsync("welcome email", user.Email, func() error {
		return s.mailer.SendWelcome(user.Email, user.FirstName)
	})

	return &dto.CompleteProfileResult{
		User:         dto.NewUserResponse(user),
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	}, nil
}

// provisionalPassword builds the temporary password a provisioned account
// starts with.
func provisionalPassword() string {
	return uuid.New().String()[:8]
}
