package models

// NewsletterSubscriber - подписчик email-рассылки (не путать с
// подпиской на канал пользователя).
type NewsletterSubscriber struct {
	BaseModel
	Email string `gorm:"uniqueIndex;not null" json:"email"`
}
