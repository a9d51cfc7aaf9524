package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"kupanga_backend/internal/models"
)

// ErrResetTokenNotFound is returned when no row matches the token value,
// including tokens already consumed.
var ErrResetTokenNotFound = errors.New("password reset token not found")

type PasswordResetTokenRepository interface {
	Create(token *models.PasswordResetToken) error
	FindByToken(tokenString string) (*models.PasswordResetToken, error)

	// Delete consumes the token. A second consumption attempt fails lookup.
	Delete(token *models.PasswordResetToken) error

	DeleteByUserID(userID string) error
	CleanExpired() error
}

type passwordResetTokenRepository struct {
	db *gorm.DB
}

func NewPasswordResetTokenRepository(db *gorm.DB) PasswordResetTokenRepository {
	return &passwordResetTokenRepository{db: db}
}

func (r *passwordResetTokenRepository) Create(token *models.PasswordResetToken) error {
	return r.db.Create(token).Error
}

func (r *passwordResetTokenRepository) FindByToken(tokenString string) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	if err := r.db.Where("token = ?", tokenString).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResetTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *passwordResetTokenRepository) Delete(token *models.PasswordResetToken) error {
	return r.db.Delete(token).Error
}

func (r *passwordResetTokenRepository) DeleteByUserID(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.PasswordResetToken{}).Error
}

func (r *passwordResetTokenRepository) CleanExpired() error {
	return r.db.Where("expiration_date < ?", time.Now()).
		Delete(&models.PasswordResetToken{}).Error
}
