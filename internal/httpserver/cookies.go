package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/teamshift/internal/config"
	"github.com/Skotchmaster/teamshift/internal/service"
)

const refreshDelim = ":"

// Cookies builds the access and refresh cookies from the auth configuration.
type Cookies struct {
	AccessName  string
	RefreshName string
	Secure      bool
	SameSite    http.SameSite
	Domain      string
}

func NewCookies(cfg config.AuthConfig) *Cookies {
	return &Cookies{
		AccessName:  cfg.AccessCookieName,
		RefreshName: cfg.RefreshCookieName,
		Secure:      cfg.CookieSecure,
		SameSite:    cfg.CookieSameSite,
		Domain:      cfg.CookieDomain,
	}
}

func (k *Cookies) CreateCookie(name, value string, exp time.Time) *http.Cookie {
	maxAge := int(time.Until(exp).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   k.Domain,
		Expires:  exp,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   k.Secure,
		SameSite: k.SameSite,
	}
}

func (k *Cookies) DeleteCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   k.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   k.Secure,
		SameSite: k.SameSite,
	}
}

func (k *Cookies) SetSession(c echo.Context, s *service.Session) {
	c.SetCookie(k.CreateCookie(k.AccessName, s.AccessToken, s.AccessExp))
	c.SetCookie(k.CreateCookie(k.RefreshName, EncodeRefresh(s.SessionID, s.RefreshSecret), s.RefreshExp))
}

func (k *Cookies) Clear(c echo.Context) {
	c.SetCookie(k.DeleteCookie(k.RefreshName))
	c.SetCookie(k.DeleteCookie(k.AccessName))
}

func EncodeRefresh(sessionID, secret string) string {
	return sessionID + refreshDelim + secret
}

// ParseRefresh splits "<session_id>:<secret>" on the first delimiter.
func ParseRefresh(v string) (sessionID, secret string, ok bool) {
	sessionID, secret, ok = strings.Cut(v, refreshDelim)
	if !ok || sessionID == "" || secret == "" {
		return "", "", false
	}
	return sessionID, secret, true
}
