package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"kupanga_backend/internal/apperrors"
	"kupanga_backend/internal/auth"
	"kupanga_backend/internal/logger"
	"kupanga_backend/internal/models"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserEmail = "userEmail"
	ContextUserRole  = "role"
)

// fallbackCookie is the optional secondary access-token transport.
const fallbackCookie = "jwt_token"

// AuthMiddleware verifies the access token on every request. The token is
// read from the Authorization header (Bearer scheme) or, failing that,
// from the jwt_token cookie. Verification is purely cryptographic; no
// store lookup happens here.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			appErr := apperrors.ErrInvalidToken
			if apperrors.Is(err, auth.ErrTokenExpired) {
				appErr = apperrors.ErrTokenExpired
			}
			abortWithError(c, appErr)
			return
		}

		c.Set(ContextUserEmail, claims.Subject)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

// RequireRole restricts a route to one or more roles.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get(ContextUserRole)
		if !exists {
			abortWithError(c, apperrors.ErrForbidden)
			return
		}

		roleStr, ok := roleVal.(string)
		if !ok || !roleSet[models.UserRole(roleStr)] {
			abortWithError(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	apperrors.HandleError(c, appErr)
	c.Abort()
}

// UserEmail returns the authenticated user's email from the context.
func UserEmail(c *gin.Context) string {
	val, exists := c.Get(ContextUserEmail)
	if !exists {
		return ""
	}
	email, _ := val.(string)
	return email
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(fallbackCookie); err == nil && cookie != "" {
		return cookie
	}
	return ""
}

// RequestLogger logs every request through the structured logger.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.HTTPLog(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), c.Writer.Size())
	}
}
