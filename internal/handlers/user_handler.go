package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kupanga_backend/internal/apperrors"
	"kupanga_backend/internal/middleware"
	"kupanga_backend/internal/models"
	"kupanga_backend/internal/services"
	"kupanga_backend/internal/services/dto"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{BaseHandler: base, userService: userService}
}

// RegisterRoutes registers the user routes. All of them require a valid
// access token.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("/me", h.Me)
		users.PUT("/me/avatar", h.UpdateAvatar)
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("avatar file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("could not read avatar file"))
		return
	}
	defer file.Close()

	url, err := h.userService.UpdateAvatar(c.Request.Context(), user.ID, &services.AvatarUpload{
		Reader:      file,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Filename:    fileHeader.Filename,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatarUrl": url})
}

func (h *UserHandler) currentUser(c *gin.Context) (*models.User, bool) {
	email := middleware.UserEmail(c)
	if email == "" {
		apperrors.HandleError(c, apperrors.ErrUnauthorized)
		return nil, false
	}

	user, err := h.userService.GetByEmail(email)
	if err != nil {
		h.HandleServiceError(c, err)
		return nil, false
	}
	return user, true
}
