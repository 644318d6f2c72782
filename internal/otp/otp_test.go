package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alpha_backend/internal/models"
)

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, CodeLength)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code must contain only digits: %s", code)
		}
	}
}

func TestAssignSetsCodeAndExpiry(t *testing.T) {
	user := &models.User{}
	now := time.Now()

	code, err := Assign(user, models.OTPPurposeRegistration, now)
	require.NoError(t, err)

	require.True(t, user.HasPendingOTP())
	assert.Equal(t, code, *user.OTP)
	assert.Equal(t, models.OTPPurposeRegistration, *user.OTPPurpose)
	assert.Equal(t, now.Add(TTL), *user.OTPExpires)
}

func TestAssignOverwritesPreviousCode(t *testing.T) {
	user := &models.User{}
	now := time.Now()

	first, err := Assign(user, models.OTPPurposeRegistration, now)
	require.NoError(t, err)
	second, err := Assign(user, models.OTPPurposeRegistration, now)
	require.NoError(t, err)

	// Старый код недействителен сразу после перевыпуска
	if first != second {
		assert.ErrorIs(t, Validate(user, first, models.OTPPurposeRegistration, now), ErrInvalid)
	}
	assert.NoError(t, Validate(user, second, models.OTPPurposeRegistration, now))
}

func TestValidateSuccessClearsOTP(t *testing.T) {
	user := &models.User{}
	now := time.Now()
	code, err := Assign(user, models.OTPPurposeReset, now)
	require.NoError(t, err)

	err = Validate(user, code, models.OTPPurposeReset, now.Add(5*time.Minute))
	require.NoError(t, err)

	assert.False(t, user.HasPendingOTP())
	assert.Nil(t, user.OTP)
	assert.Nil(t, user.OTPExpires)
	assert.Nil(t, user.OTPPurpose)

	// Повторная проверка того же кода невозможна
	assert.ErrorIs(t, Validate(user, code, models.OTPPurposeReset, now), ErrInvalid)
}

func TestValidateWrongCode(t *testing.T) {
	user := &models.User{}
	now := time.Now()
	_, err := Assign(user, models.OTPPurposeRegistration, now)
	require.NoError(t, err)

	err = Validate(user, "000000x", models.OTPPurposeRegistration, now)
	assert.ErrorIs(t, err, ErrInvalid)
	// Неудачная попытка не сбрасывает код
	assert.True(t, user.HasPendingOTP())
}

func TestValidateWrongPurpose(t *testing.T) {
	user := &models.User{}
	now := time.Now()
	code, err := Assign(user, models.OTPPurposeReset, now)
	require.NoError(t, err)

	// Код сброса пароля не годится для удаления аккаунта
	err = Validate(user, code, models.OTPPurposeDeletion, now)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.True(t, user.HasPendingOTP())
}

func TestValidateExpiredCode(t *testing.T) {
	user := &models.User{}
	now := time.Now()
	code, err := Assign(user, models.OTPPurposeRegistration, now)
	require.NoError(t, err)

	err = Validate(user, code, models.OTPPurposeRegistration, now.Add(TTL+time.Second))
	assert.ErrorIs(t, err, ErrExpired)
}

func TestValidateNoPendingOTP(t *testing.T) {
	user := &models.User{}
	err := Validate(user, "123456", models.OTPPurposeRegistration, time.Now())
	assert.ErrorIs(t, err, ErrInvalid)
}
