package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"kupanga_backend/internal/models"
)

// ErrRefreshTokenNotFound is returned when no row matches the token value.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

type RefreshTokenRepository interface {
	Create(token *models.RefreshToken) error

	// FindByToken resolves a token row by its opaque value. Revoked rows
	// still resolve; validity is the caller's concern.
	FindByToken(tokenString string) (*models.RefreshToken, error)

	// FindByUserID returns the user's current token row, if any.
	FindByUserID(userID string) (*models.RefreshToken, error)

	// Revoke flips the revoked flag on a row. Idempotent on already
	// revoked rows.
	Revoke(token *models.RefreshToken) error

	// DeleteByUserID removes every token row of a user.
	DeleteByUserID(userID string) error

	// CleanExpired physically removes expired and revoked rows. Storage
	// hygiene only: validity checks never depend on it having run.
	CleanExpired() error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *refreshTokenRepository) FindByToken(tokenString string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.db.Where("token = ?", tokenString).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *refreshTokenRepository) FindByUserID(userID string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.db.Where("user_id = ?", userID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *refreshTokenRepository) Revoke(token *models.RefreshToken) error {
	return r.db.Model(token).Update("revoked", true).Error
}

func (r *refreshTokenRepository) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

func (r *refreshTokenRepository) CleanExpired() error {
	return r.db.Where("expiration < ? OR revoked = ?", time.Now(), true).
		Delete(&models.RefreshToken{}).Error
}
