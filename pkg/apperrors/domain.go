package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок платформы.
*/

// ErrNotFound - фабрика для "не найдено" (404).
// Используется, когда ошибка репозитория (gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для "уже существует" (409)
func ErrAlreadyExists(err error, domain, message string) *AppError {
	return Wrap(err, CodeAlreadyExists, domain, message, http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// --- Пользователи и аутентификация ---

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"user",
	"User already exists",
	http.StatusBadRequest, // оригинальный контракт: 400, не 409
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrEmailNotVerified = New(
	CodeEmailNotVerified,
	"auth",
	"Email not verified. Please register again to verify.",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Not authorized, token failed",
	http.StatusUnauthorized,
)

// --- OTP ---

// Неверный и просроченный код - разные коды ошибок, но оба 400.
var ErrOTPInvalid = New(
	CodeOTPInvalid,
	"otp",
	"Invalid OTP",
	http.StatusBadRequest,
)

var ErrOTPExpired = New(
	CodeOTPExpired,
	"otp",
	"OTP expired",
	http.StatusBadRequest,
)

// ErrDeletionReasonRequired - попытка удалить аккаунт без причины.
// Причина уходит администратору в уведомлении, без нее каскад не стартует.
var ErrDeletionReasonRequired = New(
	CodeValidationFailed,
	"user",
	"Please provide OTP and reason",
	http.StatusBadRequest,
)

// --- Контент ---

var ErrPodcastNotFound = New(
	CodeNotFound,
	"podcast",
	"Podcast not found",
	http.StatusNotFound,
)

// ErrNotOwner - попытка изменить чужой подкаст.
// Оригинальный контракт отдает 401 на этом пути.
var ErrNotOwner = New(
	CodeForbidden,
	"podcast",
	"Not authorized",
	http.StatusUnauthorized,
)

// --- Подписки ---

var ErrSelfSubscription = New(
	CodeSelfSubscription,
	"subscription",
	"Cannot subscribe to yourself",
	http.StatusBadRequest,
)

var ErrAlreadySubscribed = New(
	CodeAlreadyExists,
	"newsletter",
	"You have already subscribed before",
	http.StatusConflict,
)
