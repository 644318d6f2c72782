package services

import (
	"context"

	"gorm.io/gorm"

	"alpha_backend/internal/email"
	"alpha_backend/internal/logger"
	"alpha_backend/internal/models"
	"alpha_backend/internal/repositories"
	"alpha_backend/pkg/apperrors"
)

// NewsletterService - подписка на email-рассылку.
type NewsletterService interface {
	Subscribe(ctx context.Context, db *gorm.DB, emailAddr string) error
}

type NewsletterServiceImpl struct {
	newsletterRepo repositories.NewsletterRepository
	email          email.Provider
}

func NewNewsletterService(newsletterRepo repositories.NewsletterRepository, emailProvider email.Provider) NewsletterService {
	return &NewsletterServiceImpl{
		newsletterRepo: newsletterRepo,
		email:          emailProvider,
	}
}

// Subscribe регистрирует email в рассылке и шлет приветственное письмо.
// Повторная подписка - конфликт, а не тихий успех.
func (s *NewsletterServiceImpl) Subscribe(ctx context.Context, db *gorm.DB, emailAddr string) error {
	err := s.newsletterRepo.Create(db, &models.NewsletterSubscriber{Email: emailAddr})
	if err != nil {
		if err == repositories.ErrAlreadySubscribedToNewsletter {
			return apperrors.ErrAlreadySubscribed
		}
		return apperrors.InternalError(err)
	}

	if err := s.email.SendNewsletterWelcome(emailAddr); err != nil {
		logger.CtxWarn(ctx, "Failed to send newsletter welcome", "email", emailAddr, "error", err)
	}
	return nil
}
