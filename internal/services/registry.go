package services

import (
	"alpha_backend/internal/email"
	"alpha_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService        AuthService
	AccountService     AccountService
	UserService        UserService
	PodcastService     PodcastService
	InteractionService InteractionService
	NewsletterService  NewsletterService
	ContactService     ContactService
	EmailService       email.Provider
	Storage            storage.Storage
}
