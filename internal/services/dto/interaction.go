package dto

// Запросы и ответы мутаторов-переключателей.

// PodcastSeed - метаданные подкаста из тела запроса лайка. Если записи
// со статическим id еще нет в БД, лайк досоздает ее из этих полей.
type PodcastSeed struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	Subscribers string  `json:"subscribers"`
}

type AddCommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// ToggleResponse описывает состояние после переключения реакции.
type ToggleResponse struct {
	IsLiked       bool  `json:"isLiked"`
	IsDisliked    bool  `json:"isDisliked"`
	LikesCount    int64 `json:"likesCount"`
	DislikesCount int64 `json:"dislikesCount"`
}

// SubscribeResponse описывает состояние после переключения подписки.
type SubscribeResponse struct {
	Message          string `json:"message"`
	IsSubscribed     bool   `json:"isSubscribed"`
	SubscribersCount int64  `json:"subscribersCount"`
}
