package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 10, 0, time.UTC)
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	r1, err := l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, r1.Allowed)
	assert.EqualValues(t, 1, r1.Remaining)

	r2, _ := l.Allow(ctx, "ip")
	assert.True(t, r2.Allowed)

	r3, _ := l.Allow(ctx, "ip")
	assert.False(t, r3.Allowed)
	assert.EqualValues(t, 0, r3.Remaining)
	assert.Equal(t, 50*time.Second, r3.RetryAfter)

	other, _ := l.Allow(ctx, "other-ip")
	assert.True(t, other.Allowed)

	now = now.Add(time.Minute)
	r4, _ := l.Allow(ctx, "ip")
	assert.True(t, r4.Allowed)
}

type stubLimiter struct {
	res Result
	err error
}

func (s stubLimiter) Allow(context.Context, string) (Result, error) { return s.res, s.err }

func TestMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		limiter    Limiter
		wantStatus int
		wantRetry  string
	}{
		{name: "allowed", limiter: stubLimiter{res: Result{Allowed: true, Remaining: 3}}, wantStatus: http.StatusOK},
		{name: "limited", limiter: stubLimiter{res: Result{RetryAfter: 1500 * time.Millisecond}}, wantStatus: http.StatusTooManyRequests, wantRetry: "2"},
		{name: "limiter down fails open", limiter: stubLimiter{err: errors.New("redis down")}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			limited := 0
			e := echo.New()
			e.POST("/auth/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
				Middleware(tt.limiter, Options{Scope: "login", OnLimited: func(string) { limited++ }}))

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantRetry, rec.Header().Get("Retry-After"))
			if tt.wantStatus == http.StatusTooManyRequests {
				assert.Equal(t, 1, limited)
			}
		})
	}
}
