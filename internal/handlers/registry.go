package handlers

import (
	"alpha_backend/internal/services"
	"alpha_backend/internal/validator"
)

// AppHandlers содержит все обработчики приложения.
type AppHandlers struct {
	Auth        *AuthHandler
	User        *UserHandler
	Podcast     *PodcastHandler
	Interaction *InteractionHandler
	Newsletter  *NewsletterHandler
	Contact     *ContactHandler
}

// NewAppHandlers собирает обработчики поверх контейнера сервисов.
func NewAppHandlers(sc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		Auth:        NewAuthHandler(base, sc.AuthService),
		User:        NewUserHandler(base, sc.UserService, sc.AccountService),
		Podcast:     NewPodcastHandler(base, sc.PodcastService),
		Interaction: NewInteractionHandler(base, sc.InteractionService),
		Newsletter:  NewNewsletterHandler(base, sc.NewsletterService),
		Contact:     NewContactHandler(base, sc.ContactService),
	}
}
