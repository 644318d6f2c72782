package app

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"alpha_backend/internal/config"
	"alpha_backend/internal/database"
	"alpha_backend/internal/email"
	"alpha_backend/internal/handlers"
	"alpha_backend/internal/logger"
	"alpha_backend/internal/middleware"
	"alpha_backend/internal/repositories"
	"alpha_backend/internal/routes"
	"alpha_backend/internal/services"
	"alpha_backend/internal/storage"
	"alpha_backend/internal/validator"
)

// Run собирает и запускает приложение.
func Run() error {
	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)
	logger.Info("Starting alpha backend", slog.String("env", cfg.Server.Env))

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	sc, err := initializeServices(cfg)
	if err != nil {
		return err
	}

	h := initializeHandlers(sc)
	router := initializeGinRouter(db, cfg)
	routes.SetupRoutes(router, h)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("HTTP server listening", slog.String("addr", addr))
	return router.Run(addr)
}

// initializeServices собирает репозитории, провайдеров и сервисы.
func initializeServices(cfg *config.Config) (*services.ServiceContainer, error) {
	store, err := storage.NewLocalStorage(storage.Config{
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	var emailProvider email.Provider
	if cfg.Email.SMTPHost == "" {
		// Без SMTP-кредов письма уходят в лог - удобно для локальной разработки
		logger.Warn("SMTP is not configured, using mock email provider")
		emailProvider = NewMockEmailProvider()
	} else {
		emailProvider, err = email.NewSMTPSender(email.SMTPConfig{
			Host:       cfg.Email.SMTPHost,
			Port:       cfg.Email.SMTPPort,
			Username:   cfg.Email.SMTPUser,
			Password:   cfg.Email.SMTPPassword,
			FromEmail:  cfg.Email.FromEmail,
			FromName:   cfg.Email.FromName,
			AdminEmail: cfg.Email.AdminEmail,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init email sender: %w", err)
		}
	}

	userRepo := repositories.NewUserRepository()
	podcastRepo := repositories.NewPodcastRepository()
	subRepo := repositories.NewSubscriptionRepository()
	commentRepo := repositories.NewCommentRepository()
	newsletterRepo := repositories.NewNewsletterRepository()

	return &services.ServiceContainer{
		AuthService:        services.NewAuthService(userRepo, emailProvider, store),
		AccountService:     services.NewAccountService(userRepo, podcastRepo, subRepo, commentRepo, emailProvider, store),
		UserService:        services.NewUserService(userRepo, podcastRepo),
		PodcastService:     services.NewPodcastService(podcastRepo, store),
		InteractionService: services.NewInteractionService(userRepo, podcastRepo, subRepo, commentRepo, emailProvider),
		NewsletterService:  services.NewNewsletterService(newsletterRepo, emailProvider),
		ContactService:     services.NewContactService(emailProvider),
		EmailService:       emailProvider,
		Storage:            store,
	}, nil
}

func initializeHandlers(sc *services.ServiceContainer) *handlers.AppHandlers {
	return handlers.NewAppHandlers(sc, validator.New())
}

func initializeGinRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	router.MaxMultipartMemory = 32 << 20 // файлы сверх лимита уходят на диск

	return router
}
