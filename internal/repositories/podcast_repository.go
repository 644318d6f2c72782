package repositories

import (
	"errors"

	"gorm.io/gorm"

	"alpha_backend/internal/models"
)

var ErrPodcastNotFound = errors.New("podcast not found")

type PodcastRepository interface {
	FindByAnyID(db *gorm.DB, id string) (*models.Podcast, error)
	FindAll(db *gorm.DB) ([]models.Podcast, error)
	FindByUser(db *gorm.DB, userID string) ([]models.Podcast, error)
	Create(db *gorm.DB, podcast *models.Podcast) error
	Save(db *gorm.DB, podcast *models.Podcast) error
	Delete(db *gorm.DB, podcastID string) error
	DeleteByUser(db *gorm.DB, userID string) error

	CreateEpisode(db *gorm.DB, episode *models.Episode) error

	// Реакции: взаимоисключающие множества podcast_likes / podcast_dislikes
	IsLiked(db *gorm.DB, podcastID, userID string) (bool, error)
	IsDisliked(db *gorm.DB, podcastID, userID string) (bool, error)
	AddLike(db *gorm.DB, podcastID, userID string) error
	RemoveLike(db *gorm.DB, podcastID, userID string) error
	AddDislike(db *gorm.DB, podcastID, userID string) error
	RemoveDislike(db *gorm.DB, podcastID, userID string) error
	CountLikes(db *gorm.DB, podcastID string) (int64, error)
	CountDislikes(db *gorm.DB, podcastID string) (int64, error)
	RemoveAllReactions(db *gorm.DB, userID string) error

	IncrementViews(db *gorm.DB, podcastID string) error
}

type PodcastRepositoryImpl struct{}

func NewPodcastRepository() PodcastRepository {
	return &PodcastRepositoryImpl{}
}

// FindByAnyID сначала ищет по легаси-идентификатору статического каталога
// ("1", "20"), затем по uuid. Эпизоды подгружаются по номеру.
func (r *PodcastRepositoryImpl) FindByAnyID(db *gorm.DB, id string) (*models.Podcast, error) {
	var podcast models.Podcast
	query := db.Preload("Episodes", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("episode_number ASC")
	})

	err := query.First(&podcast, "legacy_id = ?", id).Error
	if err == nil {
		return &podcast, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = query.First(&podcast, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPodcastNotFound
		}
		return nil, err
	}
	return &podcast, nil
}

func (r *PodcastRepositoryImpl) FindAll(db *gorm.DB) ([]models.Podcast, error) {
	var podcasts []models.Podcast
	err := db.Preload("Episodes", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("episode_number ASC")
	}).Order("created_at DESC").Find(&podcasts).Error
	return podcasts, err
}

func (r *PodcastRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.Podcast, error) {
	var podcasts []models.Podcast
	err := db.Preload("Episodes").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&podcasts).Error
	return podcasts, err
}

func (r *PodcastRepositoryImpl) Create(db *gorm.DB, podcast *models.Podcast) error {
	return db.Create(podcast).Error
}

func (r *PodcastRepositoryImpl) Save(db *gorm.DB, podcast *models.Podcast) error {
	return db.Omit("Likes", "Dislikes", "Episodes", "User").Save(podcast).Error
}

func (r *PodcastRepositoryImpl) Delete(db *gorm.DB, podcastID string) error {
	if err := db.Delete(&models.Episode{}, "podcast_id = ?", podcastID).Error; err != nil {
		return err
	}
	if err := r.removeJoinRows(db, []string{podcastID}); err != nil {
		return err
	}
	return db.Delete(&models.Podcast{}, "id = ?", podcastID).Error
}

// DeleteByUser выполняет массовое удаление всех подкастов пользователя:
// эпизоды, join-строки реакций и библиотек, затем сами записи.
// Вызывается внутри транзакции каскада удаления аккаунта.
func (r *PodcastRepositoryImpl) DeleteByUser(db *gorm.DB, userID string) error {
	var ids []string
	if err := db.Model(&models.Podcast{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	if err := db.Delete(&models.Episode{}, "podcast_id IN ?", ids).Error; err != nil {
		return err
	}
	if err := r.removeJoinRows(db, ids); err != nil {
		return err
	}
	if err := db.Delete(&models.HistoryEntry{}, "podcast_id IN ?", ids).Error; err != nil {
		return err
	}
	return db.Delete(&models.Podcast{}, "id IN ?", ids).Error
}

func (r *PodcastRepositoryImpl) removeJoinRows(db *gorm.DB, podcastIDs []string) error {
	for _, table := range []string{"podcast_likes", "podcast_dislikes", "user_liked_podcasts", "user_library"} {
		if err := db.Exec("DELETE FROM "+table+" WHERE podcast_id IN ?", podcastIDs).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *PodcastRepositoryImpl) CreateEpisode(db *gorm.DB, episode *models.Episode) error {
	return db.Create(episode).Error
}

// --- Реакции ---

func (r *PodcastRepositoryImpl) IsLiked(db *gorm.DB, podcastID, userID string) (bool, error) {
	return r.inJoinTable(db, "podcast_likes", podcastID, userID)
}

func (r *PodcastRepositoryImpl) IsDisliked(db *gorm.DB, podcastID, userID string) (bool, error) {
	return r.inJoinTable(db, "podcast_dislikes", podcastID, userID)
}

func (r *PodcastRepositoryImpl) inJoinTable(db *gorm.DB, table, podcastID, userID string) (bool, error) {
	var count int64
	err := db.Table(table).
		Where("podcast_id = ? AND user_id = ?", podcastID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *PodcastRepositoryImpl) AddLike(db *gorm.DB, podcastID, userID string) error {
	podcast := models.Podcast{BaseModel: models.BaseModel{ID: podcastID}}
	return db.Model(&podcast).Association("Likes").
		Append(&models.User{BaseModel: models.BaseModel{ID: userID}})
}

func (r *PodcastRepositoryImpl) RemoveLike(db *gorm.DB, podcastID, userID string) error {
	podcast := models.Podcast{BaseModel: models.BaseModel{ID: podcastID}}
	return db.Model(&podcast).Association("Likes").
		Delete(&models.User{BaseModel: models.BaseModel{ID: userID}})
}

func (r *PodcastRepositoryImpl) AddDislike(db *gorm.DB, podcastID, userID string) error {
	podcast := models.Podcast{BaseModel: models.BaseModel{ID: podcastID}}
	return db.Model(&podcast).Association("Dislikes").
		Append(&models.User{BaseModel: models.BaseModel{ID: userID}})
}

func (r *PodcastRepositoryImpl) RemoveDislike(db *gorm.DB, podcastID, userID string) error {
	podcast := models.Podcast{BaseModel: models.BaseModel{ID: podcastID}}
	return db.Model(&podcast).Association("Dislikes").
		Delete(&models.User{BaseModel: models.BaseModel{ID: userID}})
}

func (r *PodcastRepositoryImpl) CountLikes(db *gorm.DB, podcastID string) (int64, error) {
	var count int64
	err := db.Table("podcast_likes").Where("podcast_id = ?", podcastID).Count(&count).Error
	return count, err
}

func (r *PodcastRepositoryImpl) CountDislikes(db *gorm.DB, podcastID string) (int64, error) {
	var count int64
	err := db.Table("podcast_dislikes").Where("podcast_id = ?", podcastID).Count(&count).Error
	return count, err
}

// RemoveAllReactions снимает лайки и дизлайки пользователя со всех подкастов.
func (r *PodcastRepositoryImpl) RemoveAllReactions(db *gorm.DB, userID string) error {
	for _, table := range []string{"podcast_likes", "podcast_dislikes"} {
		if err := db.Exec("DELETE FROM "+table+" WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
	}
	return nil
}

// IncrementViews атомарно увеличивает счетчик, не перечитывая запись.
func (r *PodcastRepositoryImpl) IncrementViews(db *gorm.DB, podcastID string) error {
	result := db.Model(&models.Podcast{}).
		Where("id = ? OR legacy_id = ?", podcastID, podcastID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPodcastNotFound
	}
	return nil
}
