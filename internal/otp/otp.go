// Package otp выпускает и проверяет одноразовые коды подтверждения.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"alpha_backend/internal/models"
)

const (
	// CodeLength - количество цифр в коде.
	CodeLength = 6

	// TTL - окно действия кода.
	TTL = 10 * time.Minute
)

var (
	ErrInvalid = errors.New("otp: code mismatch")
	ErrExpired = errors.New("otp: code expired")
)

var codeSpace = big.NewInt(1_000_000)

// GenerateCode возвращает 6-значный код, равномерно распределенный
// по всему пространству 000000-999999 (crypto/rand).
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n), nil
}

// Assign выписывает новый код для указанного действия и записывает его
// в пользователя. Повторный вызов перезаписывает предыдущий код -
// старый становится недействительным сразу же.
func Assign(user *models.User, purpose models.OTPPurpose, now time.Time) (string, error) {
	code, err := GenerateCode()
	if err != nil {
		return "", err
	}

	expires := now.Add(TTL)
	user.OTP = &code
	user.OTPExpires = &expires
	user.OTPPurpose = &purpose
	return code, nil
}

// Validate сверяет код с ожидаемым значением и назначением.
// При успехе код сбрасывается; сохранить пользователя должен вызывающий.
// Несовпадение кода или назначения - ErrInvalid, истекшее окно - ErrExpired.
func Validate(user *models.User, code string, purpose models.OTPPurpose, now time.Time) error {
	if !user.HasPendingOTP() || *user.OTP != code {
		return ErrInvalid
	}
	if user.OTPPurpose == nil || *user.OTPPurpose != purpose {
		return ErrInvalid
	}
	if now.After(*user.OTPExpires) {
		return ErrExpired
	}

	user.ClearOTP()
	return nil
}
