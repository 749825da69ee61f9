package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/teamshift/pkg/tokens"
)

func newTestServer(t *testing.T, codec *tokens.Codec) *echo.Echo {
	t.Helper()

	m := NewSessionAuth(codec, "access_token", []string{"/auth/login", "/health"})
	e := echo.New()
	e.Use(m.RequireAuth)

	whoami := func(c echo.Context) error {
		id, ok := UserID(c)
		if !ok {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, id.String())
	}
	e.GET("/private", whoami)
	e.POST("/auth/login", whoami)
	e.GET("/health/live", whoami)
	e.GET("/healthz", whoami)
	return e
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	codec, err := tokens.NewCodec([]byte("secret"), "HS256", time.Minute)
	require.NoError(t, err)
	other, err := tokens.NewCodec([]byte("other"), "HS256", time.Minute)
	require.NoError(t, err)

	userID := uuid.New()
	good, _, err := codec.CreateAccessToken(userID.String())
	require.NoError(t, err)
	forged, _, err := other.CreateAccessToken(userID.String())
	require.NoError(t, err)
	expired, _, err := codec.WithClock(func() time.Time { return time.Now().Add(-time.Hour) }).CreateAccessToken(userID.String())
	require.NoError(t, err)
	notUUID, _, err := codec.CreateAccessToken("admin")
	require.NoError(t, err)

	e := newTestServer(t, codec)

	tests := []struct {
		name     string
		method   string
		path     string
		cookie   string
		wantCode int
		wantBody string
	}{
		{name: "public exact", method: http.MethodPost, path: "/auth/login", wantCode: http.StatusOK, wantBody: "anonymous"},
		{name: "public prefix", method: http.MethodGet, path: "/health/live", wantCode: http.StatusOK, wantBody: "anonymous"},
		{name: "not a segment prefix", method: http.MethodGet, path: "/healthz", wantCode: http.StatusUnauthorized, wantBody: MsgTokenMissing},
		{name: "missing cookie", method: http.MethodGet, path: "/private", wantCode: http.StatusUnauthorized, wantBody: MsgTokenMissing},
		{name: "forged token", method: http.MethodGet, path: "/private", cookie: forged, wantCode: http.StatusUnauthorized, wantBody: MsgTokenInvalid},
		{name: "expired token", method: http.MethodGet, path: "/private", cookie: expired, wantCode: http.StatusUnauthorized, wantBody: MsgTokenInvalid},
		{name: "subject not uuid", method: http.MethodGet, path: "/private", cookie: notUUID, wantCode: http.StatusUnauthorized, wantBody: MsgTokenInvalid},
		{name: "valid token", method: http.MethodGet, path: "/private", cookie: good, wantCode: http.StatusOK, wantBody: userID.String()},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
