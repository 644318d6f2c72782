package database

import (
	"fmt"

	"gorm.io/gorm"

	"alpha_backend/internal/models"
)

// AutoMigrate выполняет миграцию всех моделей.
func AutoMigrate(db *gorm.DB) error {
	// uuid_generate_v4 используется в default-выражениях первичных ключей
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Podcast{},
		&models.Episode{},
		&models.HistoryEntry{},
		&models.Subscription{},
		&models.Comment{},
		&models.NewsletterSubscriber{},
	)
}
