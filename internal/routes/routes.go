package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kupanga_backend/internal/auth"
	"kupanga_backend/internal/handlers"
	"kupanga_backend/internal/middleware"
)

// APIPrefix is the common prefix of every route.
const APIPrefix = "/api/v1"

// Setup mounts all routes on the engine. Auth routes are public; user and
// property routes require a valid access token.
func Setup(
	r *gin.Engine,
	tokens *auth.TokenManager,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	bienHandler *handlers.BienHandler,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group(APIPrefix)

	authHandler.RegisterRoutes(api)

	protected := r.Group(APIPrefix)
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		userHandler.RegisterRoutes(protected)
		bienHandler.RegisterRoutes(protected)
	}
}
