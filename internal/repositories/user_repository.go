package repositories

import (
	"errors"

	"gorm.io/gorm"

	"alpha_backend/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByIDWithRelations(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error
	Save(db *gorm.DB, user *models.User) error
	Delete(db *gorm.DB, userID string) error

	// Лайки и библиотека (join-таблицы со set-семантикой)
	AddLikedPodcast(db *gorm.DB, userID, podcastID string) error
	RemoveLikedPodcast(db *gorm.DB, userID, podcastID string) error
	ListLikedPodcastIDs(db *gorm.DB, userID string) ([]string, error)
	IsInLibrary(db *gorm.DB, userID, podcastID string) (bool, error)
	AddToLibrary(db *gorm.DB, userID, podcastID string) error
	RemoveFromLibrary(db *gorm.DB, userID, podcastID string) error
	ClearLikesAndLibrary(db *gorm.DB, userID string) error

	// Подписки (двусторонние массивы поверх user_followers)
	IsSubscribed(db *gorm.DB, subscriberID, channelID string) (bool, error)
	AddFollower(db *gorm.DB, channelID, subscriberID string) error
	RemoveFollower(db *gorm.DB, channelID, subscriberID string) error
	CountSubscribers(db *gorm.DB, channelID string) (int64, error)
	RemoveAllFollows(db *gorm.DB, userID string) error

	// История прослушивания
	ListHistory(db *gorm.DB, userID string) ([]models.HistoryEntry, error)
	DeleteHistoryEntry(db *gorm.DB, userID, podcastID string) error
	CreateHistoryEntry(db *gorm.DB, entry *models.HistoryEntry) error
	TrimHistory(db *gorm.DB, userID string, keep int) error
	DeleteHistoryByUser(db *gorm.DB, userID string) error
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByIDWithRelations(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.
		Preload("LikedPodcasts").
		Preload("Library").
		Preload("History", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("played_at DESC")
		}).
		Preload("History.Podcast").
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}

	return db.Create(user).Error
}

func (r *UserRepositoryImpl) Save(db *gorm.DB, user *models.User) error {
	// Save без ассоциаций: массивы лайков/подписок мутируются
	// отдельными set-операциями ниже.
	return db.Omit("LikedPodcasts", "Library", "History", "Subscribers", "SubscribedTo").
		Save(user).Error
}

func (r *UserRepositoryImpl) Delete(db *gorm.DB, userID string) error {
	return db.Delete(&models.User{}, "id = ?", userID).Error
}

// --- Лайки и библиотека ---

func (r *UserRepositoryImpl) AddLikedPodcast(db *gorm.DB, userID, podcastID string) error {
	// Ассоциация вставляет join-строку с ON CONFLICT DO NOTHING -
	// set-семантика на уровне хранилища, дубли невозможны.
	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	return db.Model(&user).Association("LikedPodcasts").
		Append(&models.Podcast{BaseModel: models.BaseModel{ID: podcastID}})
}

func (r *UserRepositoryImpl) RemoveLikedPodcast(db *gorm.DB, userID, podcastID string) error {
	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	return db.Model(&user).Association("LikedPodcasts").
		Delete(&models.Podcast{BaseModel: models.BaseModel{ID: podcastID}})
}

func (r *UserRepositoryImpl) ListLikedPodcastIDs(db *gorm.DB, userID string) ([]string, error) {
	var ids []string
	err := db.Table("user_liked_podcasts").
		Where("user_id = ?", userID).
		Pluck("podcast_id", &ids).Error
	return ids, err
}

func (r *UserRepositoryImpl) IsInLibrary(db *gorm.DB, userID, podcastID string) (bool, error) {
	var count int64
	err := db.Table("user_library").
		Where("user_id = ? AND podcast_id = ?", userID, podcastID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepositoryImpl) AddToLibrary(db *gorm.DB, userID, podcastID string) error {
	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	return db.Model(&user).Association("Library").
		Append(&models.Podcast{BaseModel: models.BaseModel{ID: podcastID}})
}

func (r *UserRepositoryImpl) RemoveFromLibrary(db *gorm.DB, userID, podcastID string) error {
	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	return db.Model(&user).Association("Library").
		Delete(&models.Podcast{BaseModel: models.BaseModel{ID: podcastID}})
}

// ClearLikesAndLibrary снимает все лайки пользователя и очищает
// его библиотеку. Используется каскадом удаления аккаунта.
func (r *UserRepositoryImpl) ClearLikesAndLibrary(db *gorm.DB, userID string) error {
	for _, table := range []string{"user_liked_podcasts", "user_library"} {
		if err := db.Exec("DELETE FROM "+table+" WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
	}
	return nil
}

// --- Подписки ---

func (r *UserRepositoryImpl) IsSubscribed(db *gorm.DB, subscriberID, channelID string) (bool, error) {
	var count int64
	err := db.Table("user_followers").
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepositoryImpl) AddFollower(db *gorm.DB, channelID, subscriberID string) error {
	channel := models.User{BaseModel: models.BaseModel{ID: channelID}}
	return db.Model(&channel).Association("Subscribers").
		Append(&models.User{BaseModel: models.BaseModel{ID: subscriberID}})
}

func (r *UserRepositoryImpl) RemoveFollower(db *gorm.DB, channelID, subscriberID string) error {
	channel := models.User{BaseModel: models.BaseModel{ID: channelID}}
	return db.Model(&channel).Association("Subscribers").
		Delete(&models.User{BaseModel: models.BaseModel{ID: subscriberID}})
}

func (r *UserRepositoryImpl) CountSubscribers(db *gorm.DB, channelID string) (int64, error) {
	var count int64
	err := db.Table("user_followers").
		Where("channel_id = ?", channelID).
		Count(&count).Error
	return count, err
}

// RemoveAllFollows удаляет все ребра, где пользователь выступает
// подписчиком либо каналом.
func (r *UserRepositoryImpl) RemoveAllFollows(db *gorm.DB, userID string) error {
	return db.Exec(
		"DELETE FROM user_followers WHERE subscriber_id = ? OR channel_id = ?",
		userID, userID,
	).Error
}

// --- История ---

func (r *UserRepositoryImpl) ListHistory(db *gorm.DB, userID string) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := db.Preload("Podcast").
		Where("user_id = ?", userID).
		Order("played_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *UserRepositoryImpl) DeleteHistoryEntry(db *gorm.DB, userID, podcastID string) error {
	return db.Delete(&models.HistoryEntry{}, "user_id = ? AND podcast_id = ?", userID, podcastID).Error
}

func (r *UserRepositoryImpl) CreateHistoryEntry(db *gorm.DB, entry *models.HistoryEntry) error {
	return db.Create(entry).Error
}

// TrimHistory удаляет записи за пределами keep последних.
func (r *UserRepositoryImpl) TrimHistory(db *gorm.DB, userID string, keep int) error {
	return db.Exec(`
		DELETE FROM history_entries
		WHERE user_id = ? AND id NOT IN (
			SELECT id FROM history_entries
			WHERE user_id = ?
			ORDER BY played_at DESC
			LIMIT ?
		)`, userID, userID, keep).Error
}

func (r *UserRepositoryImpl) DeleteHistoryByUser(db *gorm.DB, userID string) error {
	return db.Delete(&models.HistoryEntry{}, "user_id = ?", userID).Error
}
