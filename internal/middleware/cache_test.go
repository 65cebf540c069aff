package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	bs, err := encodePayload(200, hdr, []byte(`[{"id":1}]`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, 200, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `[{"id":1}]`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
}

func TestCacheKeyStableAcrossQueries(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "p", KeyStrategy: "route_query"}
	e := echo.New()
	mk := func(target string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/api/products")
		return cacheKeyFrom(cfg, c)
	}
	assert.Equal(t, mk("/api/products?a=1"), mk("/api/products?a=1"))
	assert.NotEqual(t, mk("/api/products?a=1"), mk("/api/products?a=2"))
	assert.Contains(t, mk("/api/products"), "p:")
}

func TestResponseCacheWithoutRedis(t *testing.T) {
	rc := NewResponseCache(config.CacheConfig{Enabled: true}, nil)
	assert.NoError(t, rc.Invalidate(context.Background()))

	e := echo.New()
	e.GET("/api/products", func(c echo.Context) error { return c.JSON(http.StatusOK, []int{1}) }, rc.Middleware())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
