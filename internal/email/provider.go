package email

// Provider определяет интерфейс для отправки писем платформы.
// Все методы синхронные; политика "fire-and-forget" для
// некритичных уведомлений реализуется на стороне вызывающего.
type Provider interface {
	// SendOTP отправляет код подтверждения регистрации или сброса пароля
	SendOTP(to, code string) error

	// SendDeletionOTP отправляет код подтверждения удаления аккаунта
	SendDeletionOTP(to, code string) error

	// SendAccountDeleted уведомляет администратора об удалении аккаунта
	SendAccountDeleted(username, userEmail, phone, reason string) error

	// SendNewsletterWelcome отправляет приветственное письмо рассылки
	SendNewsletterWelcome(to string) error

	// SendNewSubscriber уведомляет владельца канала о новом подписчике
	SendNewSubscriber(channelEmail, subscriberName string) error

	// SendContact пересылает сообщение contact-формы администратору
	SendContact(name, replyTo, subject, message string) error
}
