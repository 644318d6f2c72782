package email

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	FromEmail  string
	FromName   string
	AdminEmail string // получатель contact-формы и уведомлений об удалении
}
