package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserHashesPassword(t *testing.T) {
	u, err := CreateUser("Test User", "test@example.com", "secret123")
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", u.Password)
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("wrong"))
	assert.Equal(t, STATUS_INACTIVE, u.Status)
	assert.Equal(t, ROLE_USER, u.Role)
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("ab", "test@example.com", "secret123")
	assert.Error(t, err)

	_, err = CreateUser("Test User", "not-an-email", "secret123")
	assert.Error(t, err)

	_, err = CreateUser("Test User", "test@example.com", "short")
	assert.Error(t, err)
}

func TestGenerateActivationToken(t *testing.T) {
	u := &User{}
	require.NoError(t, u.GenerateActivationToken())

	assert.Len(t, u.ActivationToken, 32)
	require.NotNil(t, u.ActivationSentAt)
}

func TestPasswordResetTokenValidity(t *testing.T) {
	u := &User{}
	require.NoError(t, u.GeneratePasswordResetToken())

	assert.True(t, u.IsPasswordResetTokenValid(u.PasswordResetToken))
	assert.False(t, u.IsPasswordResetTokenValid("other-token"))

	expired := time.Now().Add(-3 * time.Hour)
	u.PasswordResetSentAt = &expired
	assert.False(t, u.IsPasswordResetTokenValid(u.PasswordResetToken))
}

func TestHasReferralCode(t *testing.T) {
	u := &User{}
	assert.False(t, u.HasReferralCode())

	u.ReferralCode = "ABCD2345"
	assert.True(t, u.HasReferralCode())
}
