package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/pkg/tokens"
)

const userIDKey = "user_id"

const (
	MsgTokenMissing = "Access token not found"
	MsgTokenInvalid = "Access token invalid or expired"
)

// SessionAuth guards every route except the public ones with the access cookie.
type SessionAuth struct {
	Codec       *tokens.Codec
	CookieName  string
	PublicPaths []string
}

func NewSessionAuth(codec *tokens.Codec, cookieName string, publicPaths []string) *SessionAuth {
	return &SessionAuth{Codec: codec, CookieName: cookieName, PublicPaths: publicPaths}
}

// IsPublic matches a public path exactly or as a leading path segment,
// so "/health" covers "/health/live" but not "/healthz".
func (m *SessionAuth) IsPublic(path string) bool {
	for _, p := range m.PublicPaths {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

func (m *SessionAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.IsPublic(c.Request().URL.Path) {
			return next(c)
		}
		l := logging.FromContext(c.Request().Context()).With("middleware", "session_auth")

		cookie, err := c.Cookie(m.CookieName)
		if err != nil || cookie.Value == "" {
			l.Warn("auth_rejected", "status", http.StatusUnauthorized, "reason", "missing access cookie")
			return echo.NewHTTPError(http.StatusUnauthorized, MsgTokenMissing)
		}

		claims, err := m.Codec.VerifyAccessToken(cookie.Value)
		if err != nil {
			l.Warn("auth_rejected", "status", http.StatusUnauthorized, "reason", "access token not verifiable")
			return echo.NewHTTPError(http.StatusUnauthorized, MsgTokenInvalid)
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			l.Warn("auth_rejected", "status", http.StatusUnauthorized, "reason", "subject is not a uuid")
			return echo.NewHTTPError(http.StatusUnauthorized, MsgTokenInvalid)
		}

		c.Set(userIDKey, userID)
		return next(c)
	}
}

// UserID returns the subject stored by RequireAuth.
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(userIDKey).(uuid.UUID)
	return id, ok
}
