package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kupanga_backend/internal/apperrors"
	"kupanga_backend/internal/models"
	"kupanga_backend/internal/repositories"
	"kupanga_backend/internal/storage"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jean@example.com", NormalizeEmail("  Jean@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestUserService_GetByEmailIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewUserService(repositories.NewUserRepository(db), storage.NewMemoryStorage(""))
	created := createUser(t, db, "jean@example.com", models.RoleOwner)

	user, err := svc.GetByEmail("JEAN@example.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.GetByEmail("ghost@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_UpdateAvatar(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	store := storage.NewMemoryStorage("https://cdn.example.com")
	svc := NewUserService(repositories.NewUserRepository(db), store)
	user := createUser(t, db, "jean@example.com", models.RoleOwner)

	data := []byte("avatar-bytes")
	url, err := svc.UpdateAvatar(context.Background(), user.ID, &AvatarUpload{
		Reader:      bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: "image/jpeg",
		Filename:    "me.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/"+user.ID+".jpg", url)

	stored, ok := store.Get("avatars/" + user.ID + ".jpg")
	require.True(t, ok)
	assert.Equal(t, data, stored)

	updated, err := svc.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, url, updated.AvatarURL)

	_, err = svc.UpdateAvatar(context.Background(), "no-such-user", &AvatarUpload{
		Reader: bytes.NewReader(data), Size: int64(len(data)),
	})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
