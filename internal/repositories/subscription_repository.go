package repositories

import (
	"errors"

	"gorm.io/gorm"

	"alpha_backend/internal/models"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

// SubscriptionRepository хранит денормализованные ребра подписок.
// Основным источником истины остается user_followers, записи здесь
// дублируют ребро с email подписчика и именем канала для отчетности.
type SubscriptionRepository interface {
	Create(db *gorm.DB, sub *models.Subscription) error
	DeleteBySubscriberChannel(db *gorm.DB, subscriberID, channelID string) error
	DeleteAllForUser(db *gorm.DB, userID string) error
}

type SubscriptionRepositoryImpl struct{}

func NewSubscriptionRepository() SubscriptionRepository {
	return &SubscriptionRepositoryImpl{}
}

func (r *SubscriptionRepositoryImpl) Create(db *gorm.DB, sub *models.Subscription) error {
	return db.Create(sub).Error
}

func (r *SubscriptionRepositoryImpl) DeleteBySubscriberChannel(db *gorm.DB, subscriberID, channelID string) error {
	return db.Delete(&models.Subscription{},
		"subscriber_id = ? AND channel_id = ?", subscriberID, channelID).Error
}

// DeleteAllForUser удаляет ребра в обе стороны: где пользователь
// подписчик и где он канал.
func (r *SubscriptionRepositoryImpl) DeleteAllForUser(db *gorm.DB, userID string) error {
	return db.Delete(&models.Subscription{},
		"subscriber_id = ? OR channel_id = ?", userID, userID).Error
}
