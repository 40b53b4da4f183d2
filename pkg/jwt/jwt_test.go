package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	s := NewService("secret", time.Hour)

	token, err := s.GenerateToken("Ana", "ana@x.com", "9º ano")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "ana@x.com", claims.Email)
	assert.Equal(t, "9º ano", claims.Class)
	assert.Equal(t, "ana@x.com", claims.Subject)
}

func TestValidateRejectsOtherSecret(t *testing.T) {
	token, err := NewService("one", time.Hour).GenerateToken("a", "b", "c")
	require.NoError(t, err)

	_, err = NewService("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	s := NewService("secret", time.Minute)
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := s.GenerateToken("a", "b", "c")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestDisabledWithoutSecret(t *testing.T) {
	s := NewService("", 0)
	assert.False(t, s.Enabled())

	_, err := s.GenerateToken("a", "b", "c")
	assert.ErrorIs(t, err, ErrNoSecret)
	_, err = s.ValidateToken("x")
	assert.ErrorIs(t, err, ErrNoSecret)
}
