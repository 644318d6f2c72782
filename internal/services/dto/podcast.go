package dto

// Поля multipart-формы создания/обновления подкаста.
// Файлы (image, audio, video) извлекаются из формы отдельно.

type CreatePodcastRequest struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"omitempty,max=5000"`
	Category    string `form:"category" validate:"omitempty,max=100"`
	Language    string `form:"language" validate:"omitempty,max=50"`
}

type UpdatePodcastRequest struct {
	Title       string `form:"title" validate:"omitempty,max=200"`
	Description string `form:"description" validate:"omitempty,max=5000"`
	Category    string `form:"category" validate:"omitempty,max=100"`
	Language    string `form:"language" validate:"omitempty,max=50"`
}

type AddEpisodeRequest struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"omitempty,max=5000"`
	Duration    string `form:"duration" validate:"omitempty,max=20"`
}

// PodcastResponse дополняет модель счетчиками реакций.
type PodcastResponse struct {
	Podcast      interface{} `json:"podcast"`
	LikeCount    int64       `json:"likeCount"`
	DislikeCount int64       `json:"dislikeCount"`
}
