package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestValidMobile(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"9876543210", true},
		{"0000000000", true},
		{"", false},
		{"987654321", false},
		{"98765432101", false},
		{"98765abcde", false},
		{"+919876543", false},
		{"98765 4321", false},
		{"９８７６５４３２１０", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidMobile(tc.in), "ValidMobile(%q)", tc.in)
	}
}

func TestValidPassword(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"12345", false},
		{"123456", true},
		{"пароль", true},
		{strings.Repeat("a", MaxPasswordBytes), true},
		{strings.Repeat("a", MaxPasswordBytes+1), false},
		// 37 two-byte runes: long enough in characters, too long in bytes
		{strings.Repeat("я", 37), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidPassword(tc.in), "ValidPassword(%d bytes)", len(tc.in))
	}
}

func TestHashAcceptsEveryValidPassword(t *testing.T) {
	longest := strings.Repeat("a", MaxPasswordBytes)
	hash, err := HashPassword(longest, bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, longest))
	assert.False(t, VerifyPassword(hash, longest+"a"))
}
