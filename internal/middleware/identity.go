package middleware

// identity.go resolves who is calling for rate-limit keys. A valid bearer
// access token contributes its subject (the mobile number); anything else
// is "anon". The token is never used for authorization.

import (
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/storefront/internal/utils"
)

func requestIdentity(c echo.Context, secret string) string {
    auth := c.Request().Header.Get(echo.HeaderAuthorization)
    if secret == "" || !strings.HasPrefix(auth, "Bearer ") {
        return "anon"
    }
    sub, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
    if err != nil {
        return "anon"
    }
    return sub
}
