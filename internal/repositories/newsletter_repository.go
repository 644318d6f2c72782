package repositories

import (
	"errors"

	"gorm.io/gorm"

	"alpha_backend/internal/models"
)

var ErrAlreadySubscribedToNewsletter = errors.New("email already subscribed")

type NewsletterRepository interface {
	Create(db *gorm.DB, sub *models.NewsletterSubscriber) error
	FindByEmail(db *gorm.DB, email string) (*models.NewsletterSubscriber, error)
}

type NewsletterRepositoryImpl struct{}

func NewNewsletterRepository() NewsletterRepository {
	return &NewsletterRepositoryImpl{}
}

func (r *NewsletterRepositoryImpl) Create(db *gorm.DB, sub *models.NewsletterSubscriber) error {
	var existing models.NewsletterSubscriber
	if err := db.Where("email = ?", sub.Email).First(&existing).Error; err == nil {
		return ErrAlreadySubscribedToNewsletter
	}

	return db.Create(sub).Error
}

func (r *NewsletterRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.NewsletterSubscriber, error) {
	var sub models.NewsletterSubscriber
	err := db.First(&sub, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &sub, nil
}
