package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"alpha_backend/internal/auth"
	"alpha_backend/internal/email"
	"alpha_backend/internal/logger"
	"alpha_backend/internal/models"
	"alpha_backend/internal/otp"
	"alpha_backend/internal/repositories"
	"alpha_backend/internal/services/dto"
	"alpha_backend/internal/storage"
	"alpha_backend/pkg/apperrors"
)

// AuthService реализует регистрацию с подтверждением email,
// вход и восстановление пароля.
type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) error
	VerifyOTP(ctx context.Context, db *gorm.DB, req *dto.VerifyOTPRequest) (*dto.AuthResponse, error)
	ResendOTP(ctx context.Context, db *gorm.DB, req *dto.ResendOTPRequest) error
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	ForgotPassword(ctx context.Context, db *gorm.DB, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, db *gorm.DB, userID string, req *dto.ChangePasswordRequest) error
	UploadProfilePicture(ctx context.Context, db *gorm.DB, userID string, file *multipart.FileHeader) (string, error)
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	email    email.Provider
	storage  storage.Storage
}

func NewAuthService(userRepo repositories.UserRepository, emailProvider email.Provider, store storage.Storage) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		email:    emailProvider,
		storage:  store,
	}
}

// Register создает неподтвержденный аккаунт и отправляет OTP.
// Повторная регистрация на неподтвержденный email перезаписывает
// учетные данные и выдает новый код; подтвержденный email занят навсегда.
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) error {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	existing, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil && err != repositories.ErrUserNotFound {
		return apperrors.InternalError(err)
	}

	var user *models.User
	if existing != nil {
		if existing.IsVerified {
			return apperrors.ErrEmailAlreadyExists
		}
		existing.Username = req.Username
		existing.PasswordHash = hash
		existing.Phone = req.Phone
		user = existing
	} else {
		user = &models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			Phone:        req.Phone,
		}
	}

	code, err := otp.Assign(user, models.OTPPurposeRegistration, time.Now())
	if err != nil {
		return apperrors.InternalError(err)
	}

	if existing != nil {
		err = s.userRepo.Save(db, user)
	} else {
		err = s.userRepo.Create(db, user)
	}
	if err != nil {
		if err == repositories.ErrUserAlreadyExists {
			return apperrors.ErrEmailAlreadyExists
		}
		return apperrors.InternalError(err)
	}

	if err := s.email.SendOTP(user.Email, code); err != nil {
		logger.CtxWithError(ctx, "Failed to send registration OTP", err, "email", user.Email)
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Registration OTP issued", "email", user.Email)
	return nil
}

func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, db *gorm.DB, req *dto.VerifyOTPRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if err := otp.Validate(user, req.OTP, models.OTPPurposeRegistration, time.Now()); err != nil {
		return nil, otpError(err)
	}

	user.IsVerified = true
	if err := s.userRepo.Save(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Email verified", "user_id", user.ID)
	return s.authResponse(user)
}

// ResendOTP выдает новый код регистрации. Для уже подтвержденного
// аккаунта повторная выдача не имеет смысла и отклоняется.
func (s *AuthServiceImpl) ResendOTP(ctx context.Context, db *gorm.DB, req *dto.ResendOTPRequest) error {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}
	if user.IsVerified {
		return apperrors.NewBadRequestError("Email already verified")
	}

	code, err := otp.Assign(user, models.OTPPurposeRegistration, time.Now())
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.Save(db, user); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.email.SendOTP(user.Email, code); err != nil {
		logger.CtxWithError(ctx, "Failed to resend OTP", err, "email", user.Email)
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	logger.CtxInfo(ctx, "User logged in", "user_id", user.ID)
	return s.authResponse(user)
}

// ForgotPassword выдает OTP сброса пароля. Существование email
// подтверждается явной ошибкой 404 - так делает и остальной API.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, db *gorm.DB, req *dto.ForgotPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	code, err := otp.Assign(user, models.OTPPurposeReset, time.Now())
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.Save(db, user); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.email.SendOTP(user.Email, code); err != nil {
		logger.CtxWithError(ctx, "Failed to send reset OTP", err, "email", user.Email)
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) ResetPassword(ctx context.Context, db *gorm.DB, req *dto.ResetPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if err := otp.Validate(user, req.OTP, models.OTPPurposeReset, time.Now()); err != nil {
		return otpError(err)
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	user.PasswordHash = hash

	if err := s.userRepo.Save(db, user); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Password reset completed", "user_id", user.ID)
	return nil
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, db *gorm.DB, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	user.PasswordHash = hash

	if err := s.userRepo.Save(db, user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// UploadProfilePicture сохраняет новый аватар и удаляет прежний,
// если тот лежал в управляемом дереве uploads/.
func (s *AuthServiceImpl) UploadProfilePicture(ctx context.Context, db *gorm.DB, userID string, file *multipart.FileHeader) (string, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return "", apperrors.ErrUserNotFound
		}
		return "", apperrors.InternalError(err)
	}

	src, err := file.Open()
	if err != nil {
		return "", apperrors.NewBadRequestError("Cannot read uploaded file")
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := fmt.Sprintf("profiles/profilePic-%d%s", time.Now().UnixNano(), ext)
	if err := s.storage.Save(ctx, key, src); err != nil {
		return "", apperrors.InternalError(err)
	}

	old := user.ProfilePicture
	user.ProfilePicture = s.storage.GetURL(key)
	if err := s.userRepo.Save(db, user); err != nil {
		return "", apperrors.InternalError(err)
	}

	if oldKey, ok := storage.ToStorageKey(old); ok {
		if err := s.storage.Delete(ctx, oldKey); err != nil {
			logger.CtxWarn(ctx, "Failed to remove previous profile picture", "key", oldKey, "error", err)
		}
	}

	return user.ProfilePicture, nil
}

func (s *AuthServiceImpl) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
		Token:          token,
	}, nil
}

// otpError транслирует ошибки пакета otp в доменные.
func otpError(err error) *apperrors.AppError {
	switch err {
	case otp.ErrExpired:
		return apperrors.ErrOTPExpired
	case otp.ErrInvalid:
		return apperrors.ErrOTPInvalid
	default:
		return apperrors.InternalError(err)
	}
}
