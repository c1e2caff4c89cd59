package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/restaurant-booking/internal/config"
)

func TestNewTokenBucket_PassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil)
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/auth/token", nil), rec)
		assert.NoError(t, h(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestBucketKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/auth/token")

	assert.Equal(t, "rl:auth:10.0.0.1:POST /v1/auth/token", bucketKey(config.RateLimitConfig{Prefix: "rl:auth"}, c))
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	h := RequireRole(RoleAdmin)(func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set("role", RoleAdmin)
	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	assert.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
