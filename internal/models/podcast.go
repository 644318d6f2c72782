package models

type PodcastType string

const (
	PodcastTypeAudio PodcastType = "audio"
	PodcastTypeVideo PodcastType = "video"
)

type Podcast struct {
	BaseModel
	// LegacyID поддерживает вручную назначенные идентификаторы ("1", "20")
	// статического каталога наряду с uuid новых записей.
	LegacyID    string      `gorm:"uniqueIndex;default:null" json:"id,omitempty"`
	Title       string      `gorm:"not null" json:"title"`
	Author      string      `json:"author"` // денормализованная копия username владельца
	UserID      *string     `gorm:"index" json:"user,omitempty"`
	User        *User       `gorm:"foreignKey:UserID" json:"-"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Category    string      `json:"category"`
	Language    string      `gorm:"default:'Hindi'" json:"language"`
	Type        PodcastType `gorm:"type:varchar(10);default:'audio'" json:"type"`
	AudioURL    string      `json:"audioUrl"`
	VideoURL    string      `json:"videoUrl"`
	Views       int64       `gorm:"default:0" json:"views"`
	Rating      float64     `json:"rating"`

	// Легаси-поля статического каталога
	SubscriberLabel string `gorm:"column:subscriber_label" json:"subscribers,omitempty"`
	YoutubeChannel  string `json:"youtubeChannel,omitempty"`

	// Пользователь не может находиться в likes и dislikes одновременно.
	Likes    []User `gorm:"many2many:podcast_likes" json:"likes,omitempty"`
	Dislikes []User `gorm:"many2many:podcast_dislikes" json:"dislikes,omitempty"`

	Episodes []Episode `gorm:"foreignKey:PodcastID" json:"episodes"`
}

type Episode struct {
	BaseModel
	PodcastID     string `gorm:"not null;index" json:"-"`
	LegacyID      string `json:"id,omitempty"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Duration      string `json:"duration"`
	Date          string `json:"date"`
	EpisodeNumber int    `json:"episodeNumber"`
	VideoID       string `json:"videoId,omitempty"`
	AudioURL      string `json:"audioUrl"`
	VideoURL      string `json:"videoUrl"`
}
