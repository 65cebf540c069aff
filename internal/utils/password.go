package utils

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at sign-in, in
// characters.  MaxPasswordBytes is bcrypt's input ceiling.
const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

// ValidPassword reports whether plain meets the length policy: at least
// MinPasswordLength characters and at most MaxPasswordBytes bytes.
func ValidPassword(plain string) bool {
	return utf8.RuneCountInString(plain) >= MinPasswordLength && len(plain) <= MaxPasswordBytes
}

// HashPassword returns a bcrypt hash of plain.  A cost outside bcrypt's
// accepted range falls back to bcrypt.DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a stored bcrypt hash with a plain password.
func VerifyPassword(hash, plain string) bool {
	if len(plain) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
