package services

import (
	"context"

	"alpha_backend/internal/email"
	"alpha_backend/internal/logger"
	"alpha_backend/internal/services/dto"
	"alpha_backend/pkg/apperrors"
)

// ContactService пересылает сообщения contact-формы администратору.
type ContactService interface {
	Send(ctx context.Context, req *dto.ContactRequest) error
}

type ContactServiceImpl struct {
	email email.Provider
}

func NewContactService(emailProvider email.Provider) ContactService {
	return &ContactServiceImpl{email: emailProvider}
}

func (s *ContactServiceImpl) Send(ctx context.Context, req *dto.ContactRequest) error {
	if err := s.email.SendContact(req.Name, req.Email, req.Subject, req.Message); err != nil {
		logger.CtxWithError(ctx, "Failed to forward contact message", err, "from", req.Email)
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Contact message forwarded", "from", req.Email)
	return nil
}
