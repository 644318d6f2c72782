package apperrors

// ErrorCode - стабильный машиночитаемый код ошибки.
// Клиент должен опираться на код, а не на текст сообщения.
type ErrorCode string

const (
	// Системные
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Общие ошибки бизнес-логики
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Аутентификация
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeEmailNotVerified   ErrorCode = "EMAIL_NOT_VERIFIED"

	// OTP: неверный и просроченный код различаются на уровне кода ошибки
	// во всех трех сценариях (регистрация, сброс пароля, удаление аккаунта).
	CodeOTPInvalid ErrorCode = "OTP_INVALID"
	CodeOTPExpired ErrorCode = "OTP_EXPIRED"

	// Подписки и взаимодействия
	CodeSelfSubscription ErrorCode = "SELF_SUBSCRIPTION"
)
