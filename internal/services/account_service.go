package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"alpha_backend/internal/email"
	"alpha_backend/internal/logger"
	"alpha_backend/internal/models"
	"alpha_backend/internal/otp"
	"alpha_backend/internal/repositories"
	"alpha_backend/internal/storage"
	"alpha_backend/pkg/apperrors"
)

// AccountService управляет необратимым удалением аккаунта:
// выдача кода подтверждения и каскад, затирающий все данные
// пользователя вместе с загруженными файлами.
type AccountService interface {
	RequestDeletionOTP(ctx context.Context, db *gorm.DB, userID string) error
	DeleteAccount(ctx context.Context, db *gorm.DB, userID, code, reason string) error
}

type AccountServiceImpl struct {
	userRepo    repositories.UserRepository
	podcastRepo repositories.PodcastRepository
	subRepo     repositories.SubscriptionRepository
	commentRepo repositories.CommentRepository
	email       email.Provider
	storage     storage.Storage
}

func NewAccountService(
	userRepo repositories.UserRepository,
	podcastRepo repositories.PodcastRepository,
	subRepo repositories.SubscriptionRepository,
	commentRepo repositories.CommentRepository,
	emailProvider email.Provider,
	store storage.Storage,
) AccountService {
	return &AccountServiceImpl{
		userRepo:    userRepo,
		podcastRepo: podcastRepo,
		subRepo:     subRepo,
		commentRepo: commentRepo,
		email:       emailProvider,
		storage:     store,
	}
}

func (s *AccountServiceImpl) RequestDeletionOTP(ctx context.Context, db *gorm.DB, userID string) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	code, err := otp.Assign(user, models.OTPPurposeDeletion, time.Now())
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.Save(db, user); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.email.SendDeletionOTP(user.Email, code); err != nil {
		logger.CtxWithError(ctx, "Failed to send deletion OTP", err, "user_id", userID)
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Deletion OTP issued", "user_id", userID)
	return nil
}

// DeleteAccount проверяет причину и код удаления, затем выполняет
// каскад. Записи БД удаляются в одной транзакции; файлы стираются
// после коммита по принципу best-effort - осиротевший файл лучше,
// чем висящая запись без файла.
func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, db *gorm.DB, userID, code, reason string) error {
	// Причина обязательна и проверяется до любых побочных эффектов,
	// в том числе до расходования кода.
	if strings.TrimSpace(reason) == "" {
		return apperrors.ErrDeletionReasonRequired
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if err := otp.Validate(user, code, models.OTPPurposeDeletion, time.Now()); err != nil {
		return otpError(err)
	}

	podcasts, err := s.podcastRepo.FindByUser(db, userID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	fileKeys := collectUserFileKeys(user, podcasts)

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.podcastRepo.DeleteByUser(tx, userID); err != nil {
			return err
		}
		if err := s.podcastRepo.RemoveAllReactions(tx, userID); err != nil {
			return err
		}
		if err := s.userRepo.RemoveAllFollows(tx, userID); err != nil {
			return err
		}
		if err := s.subRepo.DeleteAllForUser(tx, userID); err != nil {
			return err
		}
		if err := s.commentRepo.DeleteByUser(tx, userID); err != nil {
			return err
		}
		if err := s.userRepo.DeleteHistoryByUser(tx, userID); err != nil {
			return err
		}
		if err := s.userRepo.ClearLikesAndLibrary(tx, userID); err != nil {
			return err
		}
		return s.userRepo.Delete(tx, userID)
	})
	if err != nil {
		return apperrors.InternalError(err)
	}

	for _, key := range fileKeys {
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.CtxWarn(ctx, "Failed to remove file during account deletion", "key", key, "error", err)
		}
	}

	if err := s.email.SendAccountDeleted(user.Username, user.Email, user.Phone, reason); err != nil {
		logger.CtxWarn(ctx, "Failed to send deletion notification", "user_id", userID, "error", err)
	}

	logger.CtxInfo(ctx, "Account deleted",
		"user_id", userID,
		"podcasts", len(podcasts),
		"files", len(fileKeys),
	)
	return nil
}

// collectUserFileKeys собирает уникальные ключи всех управляемых файлов
// пользователя: аватар, обложки и медиа подкастов, медиа эпизодов.
// Внешние URL (статический каталог) пропускаются.
func collectUserFileKeys(user *models.User, podcasts []models.Podcast) []string {
	seen := make(map[string]struct{})
	add := func(stored string) {
		if key, ok := storage.ToStorageKey(stored); ok {
			seen[key] = struct{}{}
		}
	}

	add(user.ProfilePicture)
	for i := range podcasts {
		p := &podcasts[i]
		add(p.Image)
		add(p.AudioURL)
		add(p.VideoURL)
		for j := range p.Episodes {
			add(p.Episodes[j].AudioURL)
			add(p.Episodes[j].VideoURL)
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	return keys
}
