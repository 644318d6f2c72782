package dto

// Запросы профиля, библиотеки, истории и удаления аккаунта.

type UpdateProfileRequest struct {
	Username string `json:"username" validate:"omitempty,min=2,max=50"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

type DeleteAccountRequest struct {
	OTP    string `json:"otp" validate:"required,otp"`
	Reason string `json:"reason" validate:"required,max=500"`
}

type ToggleLibraryRequest struct {
	PodcastID string `json:"podcastId" validate:"required"`
}

type AddHistoryRequest struct {
	PodcastID string `json:"podcastId" validate:"required"`
	Progress  int    `json:"progress" validate:"omitempty,min=0"`
}

// PublicProfileResponse - публичный профиль канала.
type PublicProfileResponse struct {
	ID              string `json:"_id"`
	Username        string `json:"username"`
	ProfilePicture  string `json:"profilePicture"`
	SubscriberCount int64  `json:"subscriberCount"`
	PodcastCount    int    `json:"podcastCount"`
}
