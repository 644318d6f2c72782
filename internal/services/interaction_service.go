package services

import (
	"context"

	"gorm.io/gorm"

	"alpha_backend/internal/email"
	"alpha_backend/internal/logger"
	"alpha_backend/internal/models"
	"alpha_backend/internal/repositories"
	"alpha_backend/internal/services/dto"
	"alpha_backend/pkg/apperrors"
)

// InteractionService реализует мутаторы-переключатели: лайк, дизлайк,
// подписка. Каждый toggle атомарен - все затронутые строки меняются
// в одной транзакции, полулайкнутых состояний не бывает.
type InteractionService interface {
	ToggleLike(ctx context.Context, db *gorm.DB, userID, podcastID string, seed *dto.PodcastSeed) (*dto.ToggleResponse, error)
	ToggleDislike(ctx context.Context, db *gorm.DB, userID, podcastID string) (*dto.ToggleResponse, error)
	ToggleSubscribe(ctx context.Context, db *gorm.DB, subscriberID, channelID string) (*dto.SubscribeResponse, error)
	IncrementView(ctx context.Context, db *gorm.DB, podcastID string) (int64, error)
	AddComment(ctx context.Context, db *gorm.DB, userID, podcastID, text string) (*models.Comment, error)
	GetComments(ctx context.Context, db *gorm.DB, podcastID string) ([]models.Comment, error)
}

type InteractionServiceImpl struct {
	userRepo    repositories.UserRepository
	podcastRepo repositories.PodcastRepository
	subRepo     repositories.SubscriptionRepository
	commentRepo repositories.CommentRepository
	email       email.Provider
}

func NewInteractionService(
	userRepo repositories.UserRepository,
	podcastRepo repositories.PodcastRepository,
	subRepo repositories.SubscriptionRepository,
	commentRepo repositories.CommentRepository,
	emailProvider email.Provider,
) InteractionService {
	return &InteractionServiceImpl{
		userRepo:    userRepo,
		podcastRepo: podcastRepo,
		subRepo:     subRepo,
		commentRepo: commentRepo,
		email:       emailProvider,
	}
}

// ToggleLike добавляет либо снимает лайк. Активный дизлайк при
// установке лайка снимается в той же транзакции: likes и dislikes
// взаимоисключающи. Список понравившегося пользователя меняется
// синхронно со счетчиком подкаста.
func (s *InteractionServiceImpl) ToggleLike(ctx context.Context, db *gorm.DB, userID, podcastID string, seed *dto.PodcastSeed) (*dto.ToggleResponse, error) {
	podcast, err := s.podcastRepo.FindByAnyID(db, podcastID)
	if err != nil {
		if err != repositories.ErrPodcastNotFound {
			return nil, apperrors.InternalError(err)
		}
		if seed == nil || seed.Title == "" {
			return nil, apperrors.ErrPodcastNotFound
		}
		podcast, err = s.seedPodcast(ctx, db, podcastID, seed)
		if err != nil {
			return nil, err
		}
	}
	id := podcast.ID

	liked, err := s.podcastRepo.IsLiked(db, id, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if liked {
			if err := s.podcastRepo.RemoveLike(tx, id, userID); err != nil {
				return err
			}
			return s.userRepo.RemoveLikedPodcast(tx, userID, id)
		}
		if err := s.podcastRepo.RemoveDislike(tx, id, userID); err != nil {
			return err
		}
		if err := s.podcastRepo.AddLike(tx, id, userID); err != nil {
			return err
		}
		return s.userRepo.AddLikedPodcast(tx, userID, id)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.toggleResponse(db, id, userID)
}

// seedPodcast досоздает запись каталога для статического id,
// которого еще нет в БД, из метаданных тела запроса.
func (s *InteractionServiceImpl) seedPodcast(ctx context.Context, db *gorm.DB, legacyID string, seed *dto.PodcastSeed) (*models.Podcast, error) {
	podcast := &models.Podcast{
		LegacyID:        legacyID,
		Title:           seed.Title,
		Author:          seed.Author,
		Description:     seed.Description,
		Image:           seed.Image,
		Category:        seed.Category,
		Rating:          seed.Rating,
		SubscriberLabel: seed.Subscribers,
	}
	if err := s.podcastRepo.Create(db, podcast); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "Created catalog entry for static podcast", "legacy_id", legacyID)
	return podcast, nil
}

// ToggleDislike - зеркальный переключатель: установка дизлайка
// снимает активный лайк.
func (s *InteractionServiceImpl) ToggleDislike(ctx context.Context, db *gorm.DB, userID, podcastID string) (*dto.ToggleResponse, error) {
	podcast, err := s.findPodcast(db, podcastID)
	if err != nil {
		return nil, err
	}
	id := podcast.ID

	disliked, err := s.podcastRepo.IsDisliked(db, id, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if disliked {
			return s.podcastRepo.RemoveDislike(tx, id, userID)
		}
		// Снятый дизлайком лайк пропадает и из списка понравившегося
		if err := s.podcastRepo.RemoveLike(tx, id, userID); err != nil {
			return err
		}
		if err := s.userRepo.RemoveLikedPodcast(tx, userID, id); err != nil {
			return err
		}
		return s.podcastRepo.AddDislike(tx, id, userID)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.toggleResponse(db, id, userID)
}

// ToggleSubscribe переключает подписку на канал. При подписке создается
// ребро user_followers и денормализованная запись Subscription, владельцу
// канала уходит уведомление (best-effort). Подписка на себя запрещена.
func (s *InteractionServiceImpl) ToggleSubscribe(ctx context.Context, db *gorm.DB, subscriberID, channelID string) (*dto.SubscribeResponse, error) {
	if subscriberID == channelID {
		return nil, apperrors.ErrSelfSubscription
	}

	channel, err := s.userRepo.FindByID(db, channelID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	subscriber, err := s.userRepo.FindByID(db, subscriberID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	subscribed, err := s.userRepo.IsSubscribed(db, subscriberID, channelID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if subscribed {
			if err := s.userRepo.RemoveFollower(tx, channelID, subscriberID); err != nil {
				return err
			}
			return s.subRepo.DeleteBySubscriberChannel(tx, subscriberID, channelID)
		}
		if err := s.userRepo.AddFollower(tx, channelID, subscriberID); err != nil {
			return err
		}
		return s.subRepo.Create(tx, &models.Subscription{
			SubscriberID:    subscriberID,
			ChannelID:       channelID,
			SubscriberEmail: subscriber.Email,
			ChannelName:     channel.Username,
		})
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if !subscribed {
		if err := s.email.SendNewSubscriber(channel.Email, subscriber.Username); err != nil {
			logger.CtxWarn(ctx, "Failed to send new subscriber notification",
				"channel_id", channelID, "error", err)
		}
	}

	count, err := s.userRepo.CountSubscribers(db, channelID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	message := "Subscribed"
	if subscribed {
		message = "Unsubscribed"
	}
	return &dto.SubscribeResponse{
		Message:          message,
		IsSubscribed:     !subscribed,
		SubscribersCount: count,
	}, nil
}

// IncrementView возвращает счетчик после инкремента - клиент
// показывает его без повторного запроса.
func (s *InteractionServiceImpl) IncrementView(ctx context.Context, db *gorm.DB, podcastID string) (int64, error) {
	if err := s.podcastRepo.IncrementViews(db, podcastID); err != nil {
		if err == repositories.ErrPodcastNotFound {
			return 0, apperrors.ErrPodcastNotFound
		}
		return 0, apperrors.InternalError(err)
	}
	podcast, err := s.findPodcast(db, podcastID)
	if err != nil {
		return 0, err
	}
	return podcast.Views, nil
}

// AddComment создает комментарий. Комментарии неизменяемы:
// ни редактирования, ни удаления автором не предусмотрено.
func (s *InteractionServiceImpl) AddComment(ctx context.Context, db *gorm.DB, userID, podcastID, text string) (*models.Comment, error) {
	podcast, err := s.findPodcast(db, podcastID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:    userID,
		PodcastID: podcast.ID,
		Text:      text,
	}
	if err := s.commentRepo.Create(db, comment); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return comment, nil
}

func (s *InteractionServiceImpl) GetComments(ctx context.Context, db *gorm.DB, podcastID string) ([]models.Comment, error) {
	podcast, err := s.findPodcast(db, podcastID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByPodcastID(db, podcast.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return comments, nil
}

func (s *InteractionServiceImpl) findPodcast(db *gorm.DB, podcastID string) (*models.Podcast, error) {
	podcast, err := s.podcastRepo.FindByAnyID(db, podcastID)
	if err != nil {
		if err == repositories.ErrPodcastNotFound {
			return nil, apperrors.ErrPodcastNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return podcast, nil
}

func (s *InteractionServiceImpl) toggleResponse(db *gorm.DB, podcastID, userID string) (*dto.ToggleResponse, error) {
	liked, err := s.podcastRepo.IsLiked(db, podcastID, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	disliked, err := s.podcastRepo.IsDisliked(db, podcastID, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	likes, err := s.podcastRepo.CountLikes(db, podcastID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	dislikes, err := s.podcastRepo.CountDislikes(db, podcastID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ToggleResponse{
		IsLiked:       liked,
		IsDisliked:    disliked,
		LikesCount:    likes,
		DislikesCount: dislikes,
	}, nil
}
