package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/teamshift/internal/domain"
	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/metrics"
	"github.com/Skotchmaster/teamshift/internal/service"
)

type AuthHTTP struct {
	Svc     *service.AuthService
	Cookies *Cookies
	Metrics *metrics.Metrics
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login_error", "invalid body", err)
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.Metrics.AuthEvent("login", "invalid_credentials")
			l.Warn("login_failed", "status", http.StatusUnauthorized)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		h.Metrics.AuthEvent("login", "error")
		return fail(l, "login_failed", err)
	}

	h.Cookies.SetSession(c, res)
	h.Metrics.AuthEvent("login", "ok")
	l.Info("login_successful", "user_id", res.UserID)
	return c.JSON(http.StatusOK, echo.Map{"user_id": res.UserID})
}

// Refresh rotates the refresh cookie. Any refresh failure clears both cookies.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	cookie, err := c.Cookie(h.Cookies.RefreshName)
	if err != nil || cookie.Value == "" {
		l.Warn("refresh_failed", "status", http.StatusUnauthorized, "reason", "missing refresh cookie")
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}
	sessionID, secret, ok := ParseRefresh(cookie.Value)
	if !ok {
		l.Warn("refresh_failed", "status", http.StatusUnauthorized, "reason", "malformed refresh cookie")
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh cookie malformed")
	}

	res, err := h.Svc.Rotate(ctx, secret, sessionID)
	if err != nil {
		if domain.IsRefreshError(err) {
			h.Cookies.Clear(c)
			h.Metrics.AuthEvent("refresh", refreshResult(err))
			l.Warn("refresh_failed", "status", http.StatusUnauthorized, "reason", err.Error())
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		h.Metrics.AuthEvent("refresh", "error")
		return fail(l, "refresh_failed", err)
	}

	h.Cookies.SetSession(c, res)
	h.Metrics.AuthEvent("refresh", "ok")
	l.Info("refresh_successful", "user_id", res.UserID)
	return c.JSON(http.StatusOK, echo.Map{"user_id": res.UserID})
}

// Logout never fails: the cookies are cleared whatever the session state.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	revoked := false
	if cookie, err := c.Cookie(h.Cookies.RefreshName); err == nil {
		if sessionID, secret, ok := ParseRefresh(cookie.Value); ok {
			revoked = h.Svc.Logout(ctx, secret, sessionID)
		}
	}

	h.Cookies.Clear(c)
	result := "noop"
	if revoked {
		result = "revoked"
	}
	h.Metrics.AuthEvent("logout", result)
	l.Info("logout", "revoked", revoked)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_me")

	cookie, err := c.Cookie(h.Cookies.AccessName)
	if err != nil || cookie.Value == "" {
		l.Warn("me_failed", "status", http.StatusUnauthorized, "reason", "missing access cookie")
		return echo.NewHTTPError(http.StatusUnauthorized, "access token not provided")
	}

	actor, err := h.Svc.ResolveActor(ctx, cookie.Value)
	if err != nil {
		if domain.IsAuthError(err) {
			l.Warn("me_failed", "status", http.StatusUnauthorized)
			return echo.NewHTTPError(http.StatusUnauthorized, "access token is not valid")
		}
		return fail(l, "me_failed", err)
	}
	return c.JSON(http.StatusOK, actor)
}

func refreshResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrRefreshReuseDetected):
		return "reuse_detected"
	case errors.Is(err, domain.ErrRefreshInvalid):
		return "invalid"
	case errors.Is(err, domain.ErrRefreshExpired):
		return "expired"
	case errors.Is(err, domain.ErrRefreshNotFound):
		return "not_found"
	}
	return "error"
}
