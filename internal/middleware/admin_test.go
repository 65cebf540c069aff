package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const admin = "9999999999"

// newCtx builds a context for PUT /x/:mobile with an optional JSON body,
// path value and Mobile header.
func newCtx(body, pathMobile, header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(http.MethodPut, "/x", r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if header != "" {
		req.Header.Set(MobileHeader, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if pathMobile != "" {
		c.SetParamNames("mobile")
		c.SetParamValues(pathMobile)
	}
	return c, rec
}

func TestResolveMobilePrecedence(t *testing.T) {
	c, _ := newCtx(`{"mobile":"1111111111"}`, "2222222222", "3333333333")
	assert.Equal(t, "1111111111", ResolveMobile(c))

	c, _ = newCtx(`{"status":"SHIPPED"}`, "2222222222", "3333333333")
	assert.Equal(t, "2222222222", ResolveMobile(c))

	c, _ = newCtx("", "", "3333333333")
	assert.Equal(t, "3333333333", ResolveMobile(c))

	c, _ = newCtx(`{"mobile":""}`, "", "3333333333")
	assert.Equal(t, "3333333333", ResolveMobile(c), "empty body value falls through")

	c, _ = newCtx("", "", "")
	assert.Empty(t, ResolveMobile(c))
}

func TestResolveMobileRestoresBody(t *testing.T) {
	c, _ := newCtx(`{"mobile":"9999999999","order_id":7}`, "", "")
	_ = ResolveMobile(c)

	var got struct {
		OrderID int `json:"order_id"`
	}
	require.NoError(t, c.Bind(&got))
	assert.Equal(t, 7, got.OrderID)
}

func TestAdminOnly(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := AdminOnly(admin)

	cases := []struct {
		name             string
		body, path, head string
		want             int
	}{
		{"body admin", `{"mobile":"9999999999"}`, "", "", http.StatusOK},
		{"header admin", "", "", admin, http.StatusOK},
		{"path admin", "", admin, "", http.StatusOK},
		{"body customer beats header admin", `{"mobile":"1111111111"}`, "", admin, http.StatusForbidden},
		{"path customer beats header admin", "", "1111111111", admin, http.StatusForbidden},
		{"numeric body mobile never matches", `{"mobile":9999999999}`, "", admin, http.StatusForbidden},
		{"zero body mobile falls through", `{"mobile":0}`, "", admin, http.StatusOK},
		{"empty array body mobile falls through", `{"mobile":[]}`, "", admin, http.StatusOK},
		{"empty object body mobile falls through", `{"mobile":{}}`, admin, "", http.StatusOK},
		{"false body mobile falls through", `{"mobile":false}`, "", admin, http.StatusOK},
		{"non-empty array never matches", `{"mobile":["9999999999"]}`, "", admin, http.StatusForbidden},
		{"nothing", "", "", "", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newCtx(tc.body, tc.path, tc.head)
			require.NoError(t, mw(ok)(c))
			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusForbidden {
				assert.JSONEq(t, `{"error":"Unauthorized access"}`, rec.Body.String())
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(admin, admin))
	assert.False(t, IsAdmin("", ""))
	assert.False(t, IsAdmin("1234567890", admin))
}
