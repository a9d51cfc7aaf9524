package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kupanga_backend/internal/apperrors"
	"kupanga_backend/internal/auth"
	"kupanga_backend/internal/email"
	"kupanga_backend/internal/logger"
	"kupanga_backend/internal/models"
	"kupanga_backend/internal/repositories"
)

// PasswordResetService issues and consumes single-use reset tokens.
type PasswordResetService interface {
	// Request creates a reset token for the user behind the email, mails
	// the reset link (fire-and-forget) and returns the token value.
	Request(emailAddr string) (string, error)

	// Consume validates the token, sets the new password and deletes the
	// token row. Password update and token deletion happen in one
	// transaction: a failure leaves neither applied. Returns the ID of the
	// user whose password changed.
	Consume(tokenValue, newPassword string) (string, error)

	CleanExpired() error
}

type passwordResetService struct {
	db          *gorm.DB
	users       repositories.UserRepository
	tokens      repositories.PasswordResetTokenRepository
	mailer      email.Provider
	ttl         time.Duration
	frontendURL string
}

func NewPasswordResetService(
	db *gorm.DB,
	users repositories.UserRepository,
	tokens repositories.PasswordResetTokenRepository,
	mailer email.Provider,
	ttl time.Duration,
	frontendURL string,
) PasswordResetService {
	return &passwordResetService{
		db:          db,
		users:       users,
		tokens:      tokens,
		mailer:      mailer,
		ttl:         ttl,
		frontendURL: frontendURL,
	}
}

func (s *passwordResetService) Request(emailAddr string) (string, error) {
	emailAddr = NormalizeEmail(emailAddr)

	user, err := s.users.FindByEmail(emailAddr)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return "", apperrors.ErrUserNotFound
		}
		return "", apperrors.InternalError(err)
	}

	token := &models.PasswordResetToken{
		UserID:         user.ID,
		Token:          uuid.New().String(),
		ExpirationDate: time.Now().Add(s.ttl),
	}
	if err := s.tokens.Create(token); err != nil {
		return "", apperrors.InternalError(err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token.Token)
	sendAsync("password reset email", user.Email, func() error {
		return s.mailer.SendPasswordResetLink(user.Email, resetURL)
	})

	return token.Token, nil
}

func (s *passwordResetService) Consume(tokenValue, newPassword string) (string, error) {
	token, err := s.tokens.FindByToken(tokenValue)
	if err != nil {
		if apperrors.Is(err, repositories.ErrResetTokenNotFound) {
			return "", apperrors.ErrInvalidToken
		}
		return "", apperrors.InternalError(err)
	}

	// Expiry is checked before any mutation: an expired attempt leaves the
	// password and the token row untouched.
	if token.Expired(time.Now()) {
		return "", apperrors.ErrTokenExpired
	}

	if len(newPassword) < 6 {
		return "", apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	var userEmail string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		users := repositories.NewUserRepository(tx)
		tokens := repositories.NewPasswordResetTokenRepository(tx)

		user, err := users.FindByID(token.UserID)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		if err := users.Update(user); err != nil {
			return err
		}
		if err := tokens.Delete(token); err != nil {
			return err
		}
		userEmail = user.Email
		return nil
	})
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	sendAsync("password updated confirmation", userEmail, func() error {
		return s.mailer.SendPasswordUpdatedConfirmation(userEmail)
	})

	return token.UserID, nil
}

func (s *passwordResetService) CleanExpired() error {
	return s.tokens.CleanExpired()
}

// sendAsync offloads a notification send. Delivery failures are logged and
// never surface to the triggering operation.
func sendAsync(what, to string, send func() error) {
	go func() {
		if err := send(); err != nil {
			logger.Warn("failed to send "+what, "to", to, "error", err.Error())
		}
	}()
}
