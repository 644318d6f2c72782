package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"alpha_backend/internal/models"
	"alpha_backend/internal/repositories"
	"alpha_backend/internal/services/dto"
	"alpha_backend/pkg/apperrors"
)

// HistoryLimit - максимум записей истории на пользователя.
const HistoryLimit = 50

// UserService - профиль, библиотека и история прослушивания.
type UserService interface {
	GetProfile(ctx context.Context, db *gorm.DB, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*models.User, error)
	GetPublicProfile(ctx context.Context, db *gorm.DB, channelID string) (*dto.PublicProfileResponse, error)
	ToggleLiked(ctx context.Context, db *gorm.DB, userID, podcastID string) ([]string, error)
	ToggleLibrary(ctx context.Context, db *gorm.DB, userID, podcastID string) (bool, error)
	GetLibrary(ctx context.Context, db *gorm.DB, userID string) ([]models.Podcast, error)
	AddHistory(ctx context.Context, db *gorm.DB, userID string, req *dto.AddHistoryRequest) error
	GetHistory(ctx context.Context, db *gorm.DB, userID string) ([]models.HistoryEntry, error)
}

type UserServiceImpl struct {
	userRepo    repositories.UserRepository
	podcastRepo repositories.PodcastRepository
}

func NewUserService(userRepo repositories.UserRepository, podcastRepo repositories.PodcastRepository) UserService {
	return &UserServiceImpl{
		userRepo:    userRepo,
		podcastRepo: podcastRepo,
	}
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByIDWithRelations(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}

	if err := s.userRepo.Save(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// GetPublicProfile отдает открытые данные канала: имя, аватар,
// количество подписчиков и подкастов. Email и телефон не раскрываются.
func (s *UserServiceImpl) GetPublicProfile(ctx context.Context, db *gorm.DB, channelID string) (*dto.PublicProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, channelID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	count, err := s.userRepo.CountSubscribers(db, channelID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	podcasts, err := s.podcastRepo.FindByUser(db, channelID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.PublicProfileResponse{
		ID:              user.ID,
		Username:        user.Username,
		ProfilePicture:  user.ProfilePicture,
		SubscriberCount: count,
		PodcastCount:    len(podcasts),
	}, nil
}

// ToggleLiked переключает подкаст в списке понравившегося, не трогая
// счетчик лайков самого подкаста. Возвращает обновленный список id.
func (s *UserServiceImpl) ToggleLiked(ctx context.Context, db *gorm.DB, userID, podcastID string) ([]string, error) {
	podcast, err := s.podcastRepo.FindByAnyID(db, podcastID)
	if err != nil {
		if err == repositories.ErrPodcastNotFound {
			return nil, apperrors.ErrPodcastNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	ids, err := s.userRepo.ListLikedPodcastIDs(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	liked := false
	for _, id := range ids {
		if id == podcast.ID {
			liked = true
			break
		}
	}

	if liked {
		err = s.userRepo.RemoveLikedPodcast(db, userID, podcast.ID)
	} else {
		err = s.userRepo.AddLikedPodcast(db, userID, podcast.ID)
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	ids, err = s.userRepo.ListLikedPodcastIDs(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// ToggleLibrary добавляет подкаст в библиотеку либо убирает из нее.
// Возвращает итоговое состояние: true - подкаст в библиотеке.
func (s *UserServiceImpl) ToggleLibrary(ctx context.Context, db *gorm.DB, userID, podcastID string) (bool, error) {
	podcast, err := s.podcastRepo.FindByAnyID(db, podcastID)
	if err != nil {
		if err == repositories.ErrPodcastNotFound {
			return false, apperrors.ErrPodcastNotFound
		}
		return false, apperrors.InternalError(err)
	}

	inLibrary, err := s.userRepo.IsInLibrary(db, userID, podcast.ID)
	if err != nil {
		return false, apperrors.InternalError(err)
	}

	if inLibrary {
		err = s.userRepo.RemoveFromLibrary(db, userID, podcast.ID)
	} else {
		err = s.userRepo.AddToLibrary(db, userID, podcast.ID)
	}
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	return !inLibrary, nil
}

func (s *UserServiceImpl) GetLibrary(ctx context.Context, db *gorm.DB, userID string) ([]models.Podcast, error) {
	user, err := s.userRepo.FindByIDWithRelations(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user.Library, nil
}

// AddHistory пишет факт прослушивания. Повторное прослушивание того же
// подкаста поднимает запись наверх, а не дублирует ее; список
// усекается до HistoryLimit самых свежих записей.
func (s *UserServiceImpl) AddHistory(ctx context.Context, db *gorm.DB, userID string, req *dto.AddHistoryRequest) error {
	podcast, err := s.podcastRepo.FindByAnyID(db, req.PodcastID)
	if err != nil {
		if err == repositories.ErrPodcastNotFound {
			return apperrors.ErrPodcastNotFound
		}
		return apperrors.InternalError(err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.DeleteHistoryEntry(tx, userID, podcast.ID); err != nil {
			return err
		}
		entry := &models.HistoryEntry{
			UserID:    userID,
			PodcastID: podcast.ID,
			PlayedAt:  time.Now(),
			Progress:  req.Progress,
		}
		if err := s.userRepo.CreateHistoryEntry(tx, entry); err != nil {
			return err
		}
		return s.userRepo.TrimHistory(tx, userID, HistoryLimit)
	})
	if err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *UserServiceImpl) GetHistory(ctx context.Context, db *gorm.DB, userID string) ([]models.HistoryEntry, error) {
	entries, err := s.userRepo.ListHistory(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return entries, nil
}
