package repositories

import (
	"gorm.io/gorm"

	"alpha_backend/internal/models"
)

type CommentRepository interface {
	Create(db *gorm.DB, comment *models.Comment) error
	FindByPodcastID(db *gorm.DB, podcastID string) ([]models.Comment, error)
	DeleteByUser(db *gorm.DB, userID string) error
}

type CommentRepositoryImpl struct{}

func NewCommentRepository() CommentRepository {
	return &CommentRepositoryImpl{}
}

func (r *CommentRepositoryImpl) Create(db *gorm.DB, comment *models.Comment) error {
	return db.Create(comment).Error
}

// FindByPodcastID возвращает комментарии от новых к старым
// вместе с именем и аватаром автора.
func (r *CommentRepositoryImpl) FindByPodcastID(db *gorm.DB, podcastID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.Preload("User", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "username", "profile_picture")
	}).
		Where("podcast_id = ?", podcastID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepositoryImpl) DeleteByUser(db *gorm.DB, userID string) error {
	return db.Delete(&models.Comment{}, "user_id = ?", userID).Error
}
