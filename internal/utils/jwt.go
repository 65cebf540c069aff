package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"
    "time" // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp.  The token only identifies a caller for rate limiting; it
// never grants admin access.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// ErrInvalidToken is returned by ParseAccessToken for any token that fails
// signature, algorithm or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT for a mobile number.  The
// JWT includes the standard claims sub (the mobile), exp and iat plus the
// derived role.
func NewAccessToken(secret, mobile, role string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  mobile,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw with the HS256 secret and returns its subject.
func ParseAccessToken(secret, raw string) (string, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject anything that is not HMAC signed.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return "", ErrInvalidToken
    }
    sub, err := tok.Claims.GetSubject()
    if err != nil || sub == "" {
        return "", ErrInvalidToken
    }
    return sub, nil
}
