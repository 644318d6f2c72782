package app

import (
	"log/slog"

	"alpha_backend/internal/logger"
)

// MockEmailProvider пишет письма в лог вместо отправки.
// Используется в разработке, когда SMTP не настроен.
type MockEmailProvider struct{}

func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{}
}

func (m *MockEmailProvider) SendOTP(to, code string) error {
	logger.Info("MOCK EMAIL: otp", slog.String("to", to), slog.String("code", code))
	return nil
}

func (m *MockEmailProvider) SendDeletionOTP(to, code string) error {
	logger.Info("MOCK EMAIL: deletion otp", slog.String("to", to), slog.String("code", code))
	return nil
}

func (m *MockEmailProvider) SendAccountDeleted(username, userEmail, phone, reason string) error {
	logger.Info("MOCK EMAIL: account deleted",
		slog.String("username", username),
		slog.String("email", userEmail),
		slog.String("reason", reason),
	)
	return nil
}

func (m *MockEmailProvider) SendNewsletterWelcome(to string) error {
	logger.Info("MOCK EMAIL: newsletter welcome", slog.String("to", to))
	return nil
}

func (m *MockEmailProvider) SendNewSubscriber(channelEmail, subscriberName string) error {
	logger.Info("MOCK EMAIL: new subscriber",
		slog.String("to", channelEmail),
		slog.String("subscriber", subscriberName),
	)
	return nil
}

func (m *MockEmailProvider) SendContact(name, replyTo, subject, message string) error {
	logger.Info("MOCK EMAIL: contact",
		slog.String("from", replyTo),
		slog.String("subject", subject),
	)
	return nil
}
