package services

import (
	"time"

	"github.com/google/uuid"

	"kupanga_backend/internal/apperrors"
	"kupanga_backend/internal/models"
	"kupanga_backend/internal/repositories"
)

// RefreshTokenService manages the opaque server-side session tokens.
//
// A refresh token lives as a row: issued on login, soft-revoked on logout,
// physically replaced when a new one is issued for the same user. Validity
// is always checked against both the revoked flag and the expiration.
type RefreshTokenService interface {
	// Issue replaces any prior token of the user with a fresh one and
	// returns its opaque value.
	Issue(user *models.User) (string, error)

	// Resolve looks a token up by value. Revoked rows still resolve.
	Resolve(tokenValue string) (*models.RefreshToken, error)

	// RevokeByToken marks the token revoked. Fails Unauthorized when the
	// token does not exist; revoking an already revoked token succeeds.
	RevokeByToken(tokenValue string) error

	// RevokeAllForUser drops every token row of a user. Used after a
	// password reset so stolen sessions die with the old password.
	RevokeAllForUser(userID string) error

	// CleanExpired removes expired and revoked rows.
	CleanExpired() error
}

type refreshTokenService struct {
	repo repositories.RefreshTokenRepository
	ttl  time.Duration
}

func NewRefreshTokenService(repo repositories.RefreshTokenRepository, ttl time.Duration) RefreshTokenService {
	return &refreshTokenService{repo: repo, ttl: ttl}
}

func (s *refreshTokenService) Issue(user *models.User) (string, error) {
	// Single active token per user: drop the previous row before inserting.
	if err := s.repo.DeleteByUserID(user.ID); err != nil {
		return "", apperrors.InternalError(err)
	}

	token := &models.RefreshToken{
		UserID:     user.ID,
		Token:      uuid.New().String(),
		Expiration: time.Now().Add(s.ttl),
		Revoked:    false,
	}
	if err := s.repo.Create(token); err != nil {
		return "", apperrors.InternalError(err)
	}
	return token.Token, nil
}

func (s *refreshTokenService) Resolve(tokenValue string) (*models.RefreshToken, error) {
	token, err := s.repo.FindByToken(tokenValue)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.InternalError(err)
	}
	return token, nil
}

func (s *refreshTokenService) RevokeByToken(tokenValue string) error {
	token, err := s.Resolve(tokenValue)
	if err != nil {
		return err
	}
	if err := s.repo.Revoke(token); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *refreshTokenService) RevokeAllForUser(userID string) error {
	if err := s.repo.DeleteByUserID(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *refreshTokenService) CleanExpired() error {
	return s.repo.CleanExpired()
}
