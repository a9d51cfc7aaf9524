package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kupanga_backend/internal/apperrors"
	"kupanga_backend/internal/services"
	"kupanga_backend/internal/services/dto"
)

// RefreshCookieName is the cookie carrying the opaque refresh token.
const RefreshCookieName = "refreshToken"

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService

	// cookiePath scopes the refresh cookie to the refresh endpoint.
	cookiePath string
	// cookieMaxAge matches the refresh-token TTL, in seconds.
	cookieMaxAge int
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, cookiePath string, cookieMaxAge int) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  base,
		authService:  authService,
		cookiePath:   cookiePath,
		cookieMaxAge: cookieMaxAge,
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/complete-profile", h.CompleteProfile)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	c.JSON(http.StatusOK, dto.AuthResponse{AccessToken: result.AccessToken})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(RefreshCookieName)
	if err != nil || refreshToken == "" {
		apperrors.HandleError(c, apperrors.ErrUnauthorized)
		return
	}

	accessToken, err := h.authService.Refresh(refreshToken)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{AccessToken: accessToken})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	// The cookie is optional: logout must be safe without a session.
	refreshToken, _ := c.Cookie(RefreshCookieName)

	message := h.authService.Logout(refreshToken)

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("email query parameter is required"))
		return
	}

	if _, err := h.authService.ForgotPassword(email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": services.MsgResetRequested})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.Query("token")
	newPassword := c.Query("newPassword")
	if token == "" || newPassword == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("token and newPassword query parameters are required"))
		return
	}

	message, err := h.authService.ResetPassword(token, newPassword)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *AuthHandler) CompleteProfile(c *gin.Context) {
	var req dto.CompleteProfileRequest
	if !h.BindAndValidateForm(c, &req) {
		return
	}

	var avatar *services.AvatarUpload
	if fileHeader, err := c.FormFile("avatar"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			apperrors.HandleError(c, apperrors.NewBadRequestError("could not read avatar file"))
			return
		}
		defer file.Close()

		avatar = &services.AvatarUpload{
			Reader:      file,
			Size:        fileHeader.Size,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Filename:    fileHeader.Filename,
		}
	}

	result, err := h.authService.CompleteProfile(c.Request.Context(), &req, avatar)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	c.JSON(http.StatusOK, dto.CompleteProfileResponse{
		User:        result.User,
		AccessToken: result.AccessToken,
	})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookieName, token, h.cookieMaxAge, h.cookiePath, "", true, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookieName, "", -1, h.cookiePath, "", true, true)
}
