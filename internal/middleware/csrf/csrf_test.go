package csrf

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(enforceOrigin bool) *echo.Echo {
	e := echo.New()
	e.Use(Middleware(Config{
		EnforceSameOrigin: enforceOrigin,
		Skip:              func(p string) bool { return strings.HasPrefix(p, "/auth/") },
	}))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/companies", ok)
	e.POST("/companies", ok)
	e.POST("/auth/login", ok)
	return e
}

func TestMiddleware_DoubleSubmit(t *testing.T) {
	t.Parallel()

	e := newServer(true)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/companies", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	post := func(header string) int {
		req := httptest.NewRequest(http.MethodPost, "/companies", nil)
		req.Host = "example.com"
		req.Header.Set("Origin", "http://example.com")
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
		if header != "" {
			req.Header.Set("X-CSRF-Token", header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, post(""))
	assert.Equal(t, http.StatusForbidden, post("wrong"))
	assert.Equal(t, http.StatusNoContent, post(token))
}

func TestMiddleware_OriginAndSkip(t *testing.T) {
	t.Parallel()

	crossOrigin := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/companies", nil)
		req.Host = "example.com"
		req.Header.Set("Origin", "http://evil.test")
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "t"})
		req.Header.Set("X-CSRF-Token", "t")
		return req
	}

	tests := []struct {
		name          string
		enforceOrigin bool
		want          int
	}{
		{name: "origin enforced", enforceOrigin: true, want: http.StatusForbidden},
		{name: "origin not enforced", enforceOrigin: false, want: http.StatusNoContent},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newServer(tt.enforceOrigin)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, crossOrigin())
			assert.Equal(t, tt.want, rec.Code)

			rec = httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
			assert.Equal(t, http.StatusNoContent, rec.Code)
		})
	}
}
