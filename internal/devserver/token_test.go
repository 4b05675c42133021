package devserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenMaker_GenerateAndParse(t *testing.T) {
	maker := NewTokenMaker("test_secret_key_1234567890", 15*time.Minute)

	token, err := maker.GenerateToken("olim")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "olim", claims.Username)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestTokenMaker_WrongSecret(t *testing.T) {
	maker := NewTokenMaker("secret-a", time.Minute)
	other := NewTokenMaker("secret-b", time.Minute)

	token, err := maker.GenerateToken("olim")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenMaker_Expired(t *testing.T) {
	maker := NewTokenMaker("secret", -time.Minute)

	token, err := maker.GenerateToken("olim")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenMaker_Garbage(t *testing.T) {
	maker := NewTokenMaker("secret", time.Minute)
	_, err := maker.ParseToken("not.a.token")
	assert.Error(t, err)
}
