package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"kupanga_backend/internal/apperrors"
	"kupanga_backend/internal/models"
	"kupanga_backend/internal/repositories"
	"kupanga_backend/internal/storage"
)

// NormalizeEmail lower-cases and trims an email address. Every lookup and
// create goes through this, which makes email uniqueness case-insensitive.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AvatarUpload carries one uploaded avatar file.
type AvatarUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Filename    string
}

// UserService is the directory of accounts: lookups plus avatar management.
type UserService interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)

	// UpdateAvatar stores the avatar bytes in the blob store and saves the
	// resulting URL on the user. Returns the URL.
	UpdateAvatar(ctx context.Context, userID string, upload *AvatarUpload) (string, error)
}

type userService struct {
	users repositories.UserRepository
	blobs storage.Storage
}

func NewUserService(users repositories.UserRepository, blobs storage.Storage) UserService {
	return &userService{users: users, blobs: blobs}
}

func (s *userService) GetByEmail(email string) (*models.User, error) {
	user, err := s.users.FindByEmail(NormalizeEmail(email))
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *userService) GetByID(id string) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID string, upload *AvatarUpload) (string, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return "", err
	}

	key := avatarKey(userID, upload.Filename)
	url, err := s.blobs.Upload(ctx, key, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	user.AvatarURL = url
	if err := s.users.Update(user); err != nil {
		return "", apperrors.InternalError(err)
	}
	return url, nil
}

func avatarKey(userID, filename string) string {
	ext := path.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("avatars/%s%s", userID, ext)
}
