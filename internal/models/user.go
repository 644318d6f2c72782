package models

import "time"

// OTPPurpose привязывает одноразовый код к конкретному действию,
// чтобы код, выданный для сброса пароля, нельзя было
// переиспользовать для удаления аккаунта.
type OTPPurpose string

const (
	OTPPurposeRegistration OTPPurpose = "registration"
	OTPPurposeReset        OTPPurpose = "reset"
	OTPPurposeDeletion     OTPPurpose = "deletion"
)

type User struct {
	BaseModel
	Username       string `gorm:"not null" json:"username"`
	Email          string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash   string `gorm:"not null" json:"-"`
	Phone          string `json:"phone,omitempty"`
	ProfilePicture string `json:"profilePicture"`
	IsVerified     bool   `gorm:"default:false" json:"isVerified"`

	// OTP, срок его действия и назначение либо все заданы, либо все пусты.
	OTP        *string     `json:"-"`
	OTPExpires *time.Time  `json:"-"`
	OTPPurpose *OTPPurpose `gorm:"type:varchar(20)" json:"-"`

	// Relations
	LikedPodcasts []Podcast      `gorm:"many2many:user_liked_podcasts" json:"likedPodcasts,omitempty"`
	Library       []Podcast      `gorm:"many2many:user_library" json:"library,omitempty"`
	History       []HistoryEntry `gorm:"foreignKey:UserID" json:"history,omitempty"`

	// Двусторонняя связь каналов и подписчиков поверх одной join-таблицы.
	Subscribers  []*User `gorm:"many2many:user_followers;joinForeignKey:ChannelID;joinReferences:SubscriberID" json:"subscribers,omitempty"`
	SubscribedTo []*User `gorm:"many2many:user_followers;joinForeignKey:SubscriberID;joinReferences:ChannelID" json:"subscribedTo,omitempty"`
}

// HasPendingOTP сообщает, ожидает ли пользователь код подтверждения.
func (u *User) HasPendingOTP() bool {
	return u.OTP != nil && u.OTPExpires != nil
}

// ClearOTP сбрасывает одноразовый код после использования.
func (u *User) ClearOTP() {
	u.OTP = nil
	u.OTPExpires = nil
	u.OTPPurpose = nil
}

// HistoryEntry - запись истории прослушивания.
// Список у пользователя упорядочен от новых к старым и ограничен 50 записями.
type HistoryEntry struct {
	BaseModel
	UserID    string    `gorm:"not null;index" json:"-"`
	PodcastID string    `gorm:"not null" json:"-"`
	Podcast   *Podcast  `gorm:"foreignKey:PodcastID" json:"podcast,omitempty"`
	PlayedAt  time.Time `gorm:"default:now()" json:"playedAt"`
	Progress  int       `gorm:"default:0" json:"progress"` // секунды
}
