package routes

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"alpha_backend/internal/config"
	"alpha_backend/internal/handlers"
	"alpha_backend/internal/middleware"
)

// SetupRoutes регистрирует все маршруты API.
// Эндпоинты выдачи OTP прикрыты лимитером, чтобы один аккаунт
// не заваливал почтовый канал кодами.
func SetupRoutes(r *gin.Engine, h *handlers.AppHandlers) {
	cfg := config.GetConfig()

	// Статика загруженных файлов
	r.Static(cfg.Storage.BaseURL, cfg.Storage.BasePath)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	otpLimiter := middleware.NewRateLimiter(rate.Limit(1.0/30.0), 3) // ~2 кода в минуту с запасом

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", otpLimiter.Middleware(), h.Auth.Register)
			auth.POST("/verify-otp", h.Auth.VerifyOTP)
			auth.POST("/resend-otp", otpLimiter.Middleware(), h.Auth.ResendOTP)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/forgot-password", otpLimiter.Middleware(), h.Auth.ForgotPassword)
			auth.POST("/reset-password", h.Auth.ResetPassword)

			auth.PUT("/change-password", middleware.AuthMiddleware(), h.Auth.ChangePassword)
			auth.POST("/profile-picture", middleware.AuthMiddleware(), h.Auth.UploadProfilePicture)
		}

		users := api.Group("/users")
		{
			users.GET("/profile", middleware.AuthMiddleware(), h.User.GetProfile)
			users.PUT("/profile", middleware.AuthMiddleware(), h.User.UpdateProfile)
			users.POST("/delete-otp", middleware.AuthMiddleware(), otpLimiter.Middleware(), h.User.RequestDeletionOTP)
			users.DELETE("/delete", middleware.AuthMiddleware(), h.User.DeleteAccount)
			users.POST("/like/:id", middleware.AuthMiddleware(), h.User.ToggleLiked)
			users.POST("/library", middleware.AuthMiddleware(), h.User.ToggleLibrary)
			users.GET("/library", middleware.AuthMiddleware(), h.User.GetLibrary)
			users.POST("/history", middleware.AuthMiddleware(), h.User.AddHistory)
			users.GET("/history", middleware.AuthMiddleware(), h.User.GetHistory)
			users.GET("/:id", h.User.GetPublicProfile)
		}

		podcasts := api.Group("/podcasts")
		{
			podcasts.GET("", h.Podcast.GetAll)
			podcasts.GET("/mine", middleware.AuthMiddleware(), h.Podcast.GetMine)
			podcasts.GET("/:id", h.Podcast.GetByID)
			podcasts.POST("", middleware.AuthMiddleware(), h.Podcast.Create)
			podcasts.PUT("/:id", middleware.AuthMiddleware(), h.Podcast.Update)
			podcasts.DELETE("/:id", middleware.AuthMiddleware(), h.Podcast.Delete)
			podcasts.POST("/:id/episodes", middleware.AuthMiddleware(), h.Podcast.AddEpisode)
		}

		interactions := api.Group("/interactions")
		{
			interactions.POST("/like/:podcastId", middleware.AuthMiddleware(), h.Interaction.ToggleLike)
			interactions.POST("/dislike/:podcastId", middleware.AuthMiddleware(), h.Interaction.ToggleDislike)
			interactions.POST("/view/:podcastId", h.Interaction.IncrementView)
			interactions.POST("/comment/:podcastId", middleware.AuthMiddleware(), h.Interaction.AddComment)
			interactions.GET("/comments/:podcastId", h.Interaction.GetComments)
			interactions.POST("/subscribe/:creatorId", middleware.AuthMiddleware(), h.Interaction.ToggleSubscribe)
		}

		// Почтовая рассылка исторически живет под /subscribers
		api.POST("/subscribers/subscribe", h.Newsletter.Subscribe)
		api.POST("/contact", h.Contact.Send)
	}
}
