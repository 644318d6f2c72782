package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"alpha_backend/internal/logger"
	"alpha_backend/internal/models"
	"alpha_backend/internal/repositories"
	"alpha_backend/internal/services/dto"
	"alpha_backend/internal/storage"
	"alpha_backend/pkg/apperrors"
)

// PodcastService реализует CRUD подкастов с загрузкой медиафайлов.
type PodcastService interface {
	Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreatePodcastRequest, files *PodcastFiles) (*models.Podcast, error)
	Update(ctx context.Context, db *gorm.DB, userID, podcastID string, req *dto.UpdatePodcastRequest, files *PodcastFiles) (*models.Podcast, error)
	Delete(ctx context.Context, db *gorm.DB, userID, podcastID string) error
	GetByID(ctx context.Context, db *gorm.DB, podcastID string) (*dto.PodcastResponse, error)
	GetAll(ctx context.Context, db *gorm.DB) ([]models.Podcast, error)
	GetByUser(ctx context.Context, db *gorm.DB, userID string) ([]models.Podcast, error)
	AddEpisode(ctx context.Context, db *gorm.DB, userID, podcastID string, req *dto.AddEpisodeRequest, files *PodcastFiles) (*models.Episode, error)
}

// PodcastFiles - файлы multipart-формы. Любое поле может быть nil.
type PodcastFiles struct {
	Image *multipart.FileHeader
	Audio *multipart.FileHeader
	Video *multipart.FileHeader
}

// Допустимые расширения по виду файла.
var allowedExtensions = map[string]map[string]bool{
	"image": {".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true},
	"audio": {".mp3": true, ".wav": true, ".m4a": true, ".ogg": true, ".aac": true},
	"video": {".mp4": true, ".webm": true, ".mov": true, ".mkv": true},
}

type PodcastServiceImpl struct {
	podcastRepo repositories.PodcastRepository
	storage     storage.Storage
}

func NewPodcastService(podcastRepo repositories.PodcastRepository, store storage.Storage) PodcastService {
	return &PodcastServiceImpl{
		podcastRepo: podcastRepo,
		storage:     store,
	}
}

// Create сохраняет файлы, создает подкаст и его первый эпизод.
// Тип выводится из загруженного медиа: есть видео - video, иначе audio.
func (s *PodcastServiceImpl) Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreatePodcastRequest, files *PodcastFiles) (*models.Podcast, error) {
	saved, err := s.saveFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	podcast := &models.Podcast{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		UserID:      &userID,
		Image:       saved.image,
		AudioURL:    saved.audio,
		VideoURL:    saved.video,
		Type:        models.PodcastTypeAudio,
	}
	if req.Language != "" {
		podcast.Language = req.Language
	}
	if saved.video != "" {
		podcast.Type = models.PodcastTypeVideo
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.podcastRepo.Create(tx, podcast); err != nil {
			return err
		}
		// Первый эпизод повторяет медиа подкаста
		episode := &models.Episode{
			PodcastID:     podcast.ID,
			Title:         req.Title,
			Description:   req.Description,
			EpisodeNumber: 1,
			Date:          time.Now().Format("2006-01-02"),
			AudioURL:      saved.audio,
			VideoURL:      saved.video,
		}
		return s.podcastRepo.CreateEpisode(tx, episode)
	})
	if err != nil {
		s.cleanupFiles(ctx, saved)
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Podcast created", "podcast_id", podcast.ID, "user_id", userID)
	return podcast, nil
}

// Update меняет метаданные и/или медиа. Замененные файлы из
// управляемого дерева удаляются.
func (s *PodcastServiceImpl) Update(ctx context.Context, db *gorm.DB, userID, podcastID string, req *dto.UpdatePodcastRequest, files *PodcastFiles) (*models.Podcast, error) {
	podcast, err := s.findOwned(db, userID, podcastID)
	if err != nil {
		return nil, err
	}

	saved, err := s.saveFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	var replaced []string
	if req.Title != "" {
		podcast.Title = req.Title
	}
	if req.Description != "" {
		podcast.Description = req.Description
	}
	if req.Category != "" {
		podcast.Category = req.Category
	}
	if req.Language != "" {
		podcast.Language = req.Language
	}
	if saved.image != "" {
		replaced = append(replaced, podcast.Image)
		podcast.Image = saved.image
	}
	if saved.audio != "" {
		replaced = append(replaced, podcast.AudioURL)
		podcast.AudioURL = saved.audio
	}
	if saved.video != "" {
		replaced = append(replaced, podcast.VideoURL)
		podcast.VideoURL = saved.video
		podcast.Type = models.PodcastTypeVideo
	}

	if err := s.podcastRepo.Save(db, podcast); err != nil {
		s.cleanupFiles(ctx, saved)
		return nil, apperrors.InternalError(err)
	}

	for _, stored := range replaced {
		if key, ok := storage.ToStorageKey(stored); ok {
			if err := s.storage.Delete(ctx, key); err != nil {
				logger.CtxWarn(ctx, "Failed to remove replaced file", "key", key, "error", err)
			}
		}
	}

	return podcast, nil
}

// Delete удаляет подкаст вместе с эпизодами, join-строками и файлами.
func (s *PodcastServiceImpl) Delete(ctx context.Context, db *gorm.DB, userID, podcastID string) error {
	podcast, err := s.findOwned(db, userID, podcastID)
	if err != nil {
		return err
	}

	keys := podcastFileKeys(podcast)

	err = db.Transaction(func(tx *gorm.DB) error {
		return s.podcastRepo.Delete(tx, podcast.ID)
	})
	if err != nil {
		return apperrors.InternalError(err)
	}

	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.CtxWarn(ctx, "Failed to remove podcast file", "key", key, "error", err)
		}
	}

	logger.CtxInfo(ctx, "Podcast deleted", "podcast_id", podcast.ID, "user_id", userID)
	return nil
}

func (s *PodcastServiceImpl) GetByID(ctx context.Context, db *gorm.DB, podcastID string) (*dto.PodcastResponse, error) {
	podcast, err := s.podcastRepo.FindByAnyID(db, podcastID)
	if err != nil {
		if err == repositories.ErrPodcastNotFound {
			return nil, apperrors.ErrPodcastNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	likes, err := s.podcastRepo.CountLikes(db, podcast.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	dislikes, err := s.podcastRepo.CountDislikes(db, podcast.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.PodcastResponse{
		Podcast:      podcast,
		LikeCount:    likes,
		DislikeCount: dislikes,
	}, nil
}

func (s *PodcastServiceImpl) GetAll(ctx context.Context, db *gorm.DB) ([]models.Podcast, error) {
	podcasts, err := s.podcastRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return podcasts, nil
}

func (s *PodcastServiceImpl) GetByUser(ctx context.Context, db *gorm.DB, userID string) ([]models.Podcast, error) {
	podcasts, err := s.podcastRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return podcasts, nil
}

// AddEpisode добавляет эпизод со следующим порядковым номером.
func (s *PodcastServiceImpl) AddEpisode(ctx context.Context, db *gorm.DB, userID, podcastID string, req *dto.AddEpisodeRequest, files *PodcastFiles) (*models.Episode, error) {
	podcast, err := s.findOwned(db, userID, podcastID)
	if err != nil {
		return nil, err
	}

	saved, err := s.saveFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	episode := &models.Episode{
		PodcastID:     podcast.ID,
		Title:         req.Title,
		Description:   req.Description,
		Duration:      req.Duration,
		EpisodeNumber: len(podcast.Episodes) + 1,
		Date:          time.Now().Format("2006-01-02"),
		AudioURL:      saved.audio,
		VideoURL:      saved.video,
	}
	if err := s.podcastRepo.CreateEpisode(db, episode); err != nil {
		s.cleanupFiles(ctx, saved)
		return nil, apperrors.InternalError(err)
	}

	return episode, nil
}

// findOwned возвращает подкаст только его владельцу.
func (s *PodcastServiceImpl) findOwned(db *gorm.DB, userID, podcastID string) (*models.Podcast, error) {
	podcast, err := s.podcastRepo.FindByAnyID(db, podcastID)
	if err != nil {
		if err == repositories.ErrPodcastNotFound {
			return nil, apperrors.ErrPodcastNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if podcast.UserID == nil || *podcast.UserID != userID {
		return nil, apperrors.ErrNotOwner
	}
	return podcast, nil
}

type savedFiles struct {
	image string
	audio string
	video string
}

// saveFiles кладет файлы формы в подкаталоги thumbnails/audio/video.
// Имя - поле формы плюс наносекундная метка, как и у аватаров.
func (s *PodcastServiceImpl) saveFiles(ctx context.Context, files *PodcastFiles) (*savedFiles, error) {
	saved := &savedFiles{}
	if files == nil {
		return saved, nil
	}

	var err error
	if files.Image != nil {
		saved.image, err = s.saveOne(ctx, files.Image, "image", "thumbnails")
		if err != nil {
			return nil, err
		}
	}
	if files.Audio != nil {
		saved.audio, err = s.saveOne(ctx, files.Audio, "audio", "audio")
		if err != nil {
			s.cleanupFiles(ctx, saved)
			return nil, err
		}
	}
	if files.Video != nil {
		saved.video, err = s.saveOne(ctx, files.Video, "video", "video")
		if err != nil {
			s.cleanupFiles(ctx, saved)
			return nil, err
		}
	}
	return saved, nil
}

func (s *PodcastServiceImpl) saveOne(ctx context.Context, file *multipart.FileHeader, kind, dir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[kind][ext] {
		return "", apperrors.NewBadRequestError(fmt.Sprintf("Unsupported %s format: %s", kind, ext))
	}

	src, err := file.Open()
	if err != nil {
		return "", apperrors.NewBadRequestError("Cannot read uploaded file")
	}
	defer src.Close()

	key := fmt.Sprintf("%s/%s-%d%s", dir, kind, time.Now().UnixNano(), ext)
	if err := s.storage.Save(ctx, key, src); err != nil {
		return "", apperrors.InternalError(err)
	}
	return s.storage.GetURL(key), nil
}

// cleanupFiles удаляет уже сохраненные файлы после неудачной операции.
func (s *PodcastServiceImpl) cleanupFiles(ctx context.Context, saved *savedFiles) {
	for _, stored := range []string{saved.image, saved.audio, saved.video} {
		if key, ok := storage.ToStorageKey(stored); ok {
			if err := s.storage.Delete(ctx, key); err != nil {
				logger.CtxWarn(ctx, "Failed to clean up file", "key", key, "error", err)
			}
		}
	}
}

func podcastFileKeys(podcast *models.Podcast) []string {
	seen := make(map[string]struct{})
	add := func(stored string) {
		if key, ok := storage.ToStorageKey(stored); ok {
			seen[key] = struct{}{}
		}
	}
	add(podcast.Image)
	add(podcast.AudioURL)
	add(podcast.VideoURL)
	for i := range podcast.Episodes {
		add(podcast.Episodes[i].AudioURL)
		add(podcast.Episodes[i].VideoURL)
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	return keys
}
