package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tidwall/gjson"
)

// MobileHeader is the request header consulted last when resolving the
// caller's mobile number.
const MobileHeader = "Mobile"

// IsAdmin reports whether candidate is the configured admin mobile.
func IsAdmin(candidate, adminMobile string) bool {
	return candidate != "" && candidate == adminMobile
}

// ResolveMobile finds the mobile number claimed by a request.  The first
// non-empty source wins: the "mobile" field of a JSON body, then the
// :mobile path parameter, then the Mobile header.  The body is restored so
// the handler can bind it afterwards.
func ResolveMobile(c echo.Context) string {
	m, _ := resolveMobile(c)
	return m
}

// resolveMobile also reports whether the winning value was a string.  A
// JSON body carrying a non-string mobile still wins over the path and the
// header but can never name the admin.
func resolveMobile(c echo.Context) (string, bool) {
	if m, isString := bodyMobile(c.Request()); m != "" {
		return m, isString
	}
	if m := c.Param("mobile"); m != "" {
		return m, true
	}
	return strings.TrimSpace(c.Request().Header.Get(MobileHeader)), true
}

func bodyMobile(req *http.Request) (string, bool) {
	if req.Body == nil || req.Body == http.NoBody {
		return "", true
	}
	if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return "", true
	}
	body, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || !gjson.ValidBytes(body) {
		return "", true
	}
	res := gjson.GetBytes(body, "mobile")
	if falsy(res) {
		return "", true
	}
	if res.Type == gjson.String {
		return res.Str, true
	}
	return res.Raw, false
}

// falsy reports JSON values that count as no mobile at all: null, false,
// "", 0, [] and {}.  They fall through to the path and header.
func falsy(res gjson.Result) bool {
	switch res.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.String:
		return res.Str == ""
	case gjson.Number:
		return res.Num == 0
	case gjson.JSON:
		if res.IsArray() {
			return len(res.Array()) == 0
		}
		return len(res.Map()) == 0
	}
	return false
}

// AdminOnly rejects with 403 every request whose resolved mobile is not the
// admin mobile.  No session or token is involved.
func AdminOnly(adminMobile string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m, isString := resolveMobile(c)
			if !isString || !IsAdmin(m, adminMobile) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Unauthorized access"})
			}
			return next(c)
		}
	}
}
