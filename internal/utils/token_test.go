package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "9876543210", "customer", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)

	sub, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", sub)
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "9876543210", "customer", 5)
	require.NoError(t, err)

	_, err = ParseAccessToken("other", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "9876543210", "customer", -5)
	require.NoError(t, err)

	_, err = ParseAccessToken("s3cret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "hunter23"))
}
