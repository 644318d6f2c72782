package models

// Comment привязан к подкасту по строковому идентификатору,
// чтобы покрыть и легаси-идентификаторы, и uuid.
// Комментарии неизменяемы, эндпоинта удаления нет.
type Comment struct {
	BaseModel
	UserID    string `gorm:"not null;index" json:"-"`
	User      *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PodcastID string `gorm:"not null;index" json:"podcastId"`
	Text      string `gorm:"not null" json:"text"`
}
