package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPSender - реализация Provider поверх gomail.
type SMTPSender struct {
	config    SMTPConfig
	templates *TemplateManager
}

// NewSMTPSender создает новый SMTP отправитель
func NewSMTPSender(config SMTPConfig) (*SMTPSender, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid SMTP port: %d", config.Port)
	}

	tm, err := NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}

	return &SMTPSender{
		config:    config,
		templates: tm,
	}, nil
}

func (s *SMTPSender) send(to, replyTo, subject, htmlBody string) error {
	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromEmail)
	}
	m.SetHeader("To", to)
	if replyTo != "" {
		m.SetHeader("Reply-To", replyTo)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(
		s.config.Host,
		s.config.Port,
		s.config.Username,
		s.config.Password,
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (s *SMTPSender) sendTemplate(to, replyTo, subject, templateName string, data TemplateData) error {
	htmlBody, err := s.templates.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}
	return s.send(to, replyTo, subject, htmlBody)
}

// SendOTP отправляет код подтверждения регистрации или сброса пароля
func (s *SMTPSender) SendOTP(to, code string) error {
	return s.sendTemplate(to, "",
		"Your Verification Code - ALPHA Podcast Platform",
		"otp", TemplateData{Code: code})
}

// SendDeletionOTP отправляет код подтверждения удаления аккаунта
func (s *SMTPSender) SendDeletionOTP(to, code string) error {
	return s.sendTemplate(to, "",
		"Account Deletion Verification Code - ALPHA Podcast Platform",
		"deletion_otp", TemplateData{Code: code})
}

// SendAccountDeleted уведомляет администратора об удалении аккаунта
func (s *SMTPSender) SendAccountDeleted(username, userEmail, phone, reason string) error {
	return s.sendTemplate(s.config.AdminEmail, "",
		fmt.Sprintf("Account Deleted: %s", username),
		"deleted", TemplateData{
			Username:  username,
			UserEmail: userEmail,
			Phone:     phone,
			Reason:    reason,
		})
}

// SendNewsletterWelcome отправляет приветственное письмо рассылки
func (s *SMTPSender) SendNewsletterWelcome(to string) error {
	return s.sendTemplate(to, "",
		"Welcome to ALPHA Podcast Platform!",
		"newsletter", TemplateData{})
}

// SendNewSubscriber уведомляет владельца канала о новом подписчике
func (s *SMTPSender) SendNewSubscriber(channelEmail, subscriberName string) error {
	return s.sendTemplate(channelEmail, "",
		"New Subscriber!",
		"newSubscriber", TemplateData{SubscriberName: subscriberName})
}

// SendContact пересылает сообщение contact-формы администратору.
// Reply-To указывает на отправителя формы.
func (s *SMTPSender) SendContact(name, replyTo, subject, message string) error {
	return s.sendTemplate(s.config.AdminEmail, replyTo,
		fmt.Sprintf("Contact Form: %s - %s", subject, name),
		"contact", TemplateData{
			Name:      name,
			UserEmail: replyTo,
			Subject:   subject,
			Message:   message,
		})
}
