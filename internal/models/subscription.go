package models

// Subscription - направленное ребро "подписчик -> канал" с
// денормализованными полями для почтовых уведомлений.
// Пара (subscriber_id, channel_id) уникальна.
type Subscription struct {
	BaseModel
	SubscriberID    string `gorm:"not null;uniqueIndex:idx_subscriber_channel" json:"subscriber"`
	SubscriberEmail string `gorm:"not null" json:"subscriberEmail"`
	ChannelID       string `gorm:"not null;uniqueIndex:idx_subscriber_channel" json:"channel"`
	ChannelName     string `gorm:"not null" json:"channelName"`
}
