package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"kupanga_backend/database"
	"kupanga_backend/internal/auth"
	"kupanga_backend/internal/config"
	"kupanga_backend/internal/email"
	"kupanga_backend/internal/handlers"
	"kupanga_backend/internal/logger"
	"kupanga_backend/internal/middleware"
	"kupanga_backend/internal/repositories"
	"kupanga_backend/internal/routes"
	"kupanga_backend/internal/services"
	"kupanga_backend/internal/storage"
	"kupanga_backend/internal/validator"
)

// cleanupInterval is how often expired tokens are purged from the store.
const cleanupInterval = time.Hour

// Services groups every service the application wires.
type Services struct {
	Auth          services.AuthService
	Users         services.UserService
	Biens         services.BienService
	RefreshTokens services.RefreshTokenService
	PasswordReset services.PasswordResetService
}

// Run boots the whole application: configuration, logger, database,
// dependencies, background cleanup and the HTTP server.
func Run() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	store := buildStorage(cfg)
	mailer := buildMailer(cfg)

	svc, tokens, err := BuildServices(cfg, db, store, mailer)
	if err != nil {
		logger.Fatal("Failed to initialize services", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runCleanup(ctx, svc)

	router := SetupRouter(cfg, svc, tokens)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// BuildServices wires repositories and services against the given
// database, blob store and mailer.
func BuildServices(cfg *config.Config, db *gorm.DB, store storage.Storage, mailer email.Provider) (*Services, *auth.TokenManager, error) {
	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTTL.Std())
	if err != nil {
		return nil, nil, fmt.Errorf("token manager: %w", err)
	}

	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	resetTokenRepo := repositories.NewPasswordResetTokenRepository(db)
	bienRepo := repositories.NewBienRepository(db)

	userService := services.NewUserService(userRepo, store)
	refreshTokenService := services.NewRefreshTokenService(refreshTokenRepo, cfg.JWT.RefreshTTL.Std())
	passwordResetService := services.NewPasswordResetService(db, userRepo, resetTokenRepo, mailer, cfg.JWT.ResetTTL.Std(), cfg.Frontend.BaseURL)
	authService := services.NewAuthService(userRepo, userService, tokens, refreshTokenService, passwordResetService, mailer)
	bienService := services.NewBienService(bienRepo)

	return &Services{
		Auth:          authService,
		Users:         userService,
		Biens:         bienService,
		RefreshTokens: refreshTokenService,
		PasswordReset: passwordResetService,
	}, tokens, nil
}

// SetupRouter builds the gin engine with middleware, handlers and routes.
func SetupRouter(cfg *config.Config, svc *Services, tokens *auth.TokenManager) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	base := handlers.NewBaseHandler(validator.New())
	authHandler := handlers.NewAuthHandler(base, svc.Auth, cfg.JWT.RefreshCookiePath, int(cfg.JWT.RefreshTTL.Std().Seconds()))
	userHandler := handlers.NewUserHandler(base, svc.Users)
	bienHandler := handlers.NewBienHandler(base, svc.Biens, svc.Users)

	routes.Setup(router, tokens, authHandler, userHandler, bienHandler)
	return router
}

func buildStorage(cfg *config.Config) storage.Storage {
	if cfg.Storage.Endpoint == "" {
		logger.Warn("No object storage configured, avatars are kept in memory")
		return storage.NewMemoryStorage(cfg.Storage.BaseURL)
	}

	store, err := storage.NewMinioStorage(context.Background(), storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
		BaseURL:   cfg.Storage.BaseURL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize object storage", "error", err)
	}
	logger.Info("Object storage initialized", "endpoint", cfg.Storage.Endpoint, "bucket", cfg.Storage.Bucket)
	return store
}

func buildMailer(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("No SMTP server configured, emails are logged only")
		return email.NewLogProvider()
	}

	mailer, err := email.NewSMTPProvider(email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})
	if err != nil {
		logger.Fatal("Failed to initialize mailer", "error", err)
	}
	return mailer
}

// runCleanup periodically purges expired refresh and reset tokens.
func runCleanup(ctx context.Context, svc *Services) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.RefreshTokens.CleanExpired(); err != nil {
				logger.Warn("Refresh token cleanup failed", "error", err)
			}
			if err := svc.PasswordReset.CleanExpired(); err != nil {
				logger.Warn("Password reset token cleanup failed", "error", err)
			}
		}
	}
}
