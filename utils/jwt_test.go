package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(42, "ada@example.com", "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, email, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	assert.Equal(t, "ada@example.com", email)
}

func TestParseJWTRejectsBadTokens(t *testing.T) {
	token, err := GenerateJWT(42, "ada@example.com", "test-secret")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, _, err := ParseJWT(token, "other-secret")
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := ParseJWT("not.a.token", "test-secret")
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, _, err := ParseJWT("", "test-secret")
		assert.Error(t, err)
	})
}
