package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/metrics"
	authmw "github.com/Skotchmaster/teamshift/internal/middleware/auth"
	"github.com/Skotchmaster/teamshift/internal/ratelimit"
)

type Deps struct {
	Auth        *AuthHTTP
	Users       *UserHTTP
	Companies   *CompanyHTTP
	Roles       *RoleHTTP
	Memberships *MembershipHTTP
	Requests    *RequestHTTP
	WorkDays    *WorkDayHTTP

	Session *authmw.SessionAuth
	// Limiter guards login and refresh. Nil disables rate limiting.
	Limiter ratelimit.Limiter
	Metrics *metrics.Metrics
	Ready   func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.Use(d.Session.RequireAuth)

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Error("readiness_failed", "status", http.StatusServiceUnavailable, "error", err)
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	var loginMw, refreshMw []echo.MiddlewareFunc
	if d.Limiter != nil {
		loginMw = append(loginMw, ratelimit.Middleware(d.Limiter, ratelimit.Options{Scope: "login", OnLimited: d.Metrics.RateLimited}))
		refreshMw = append(refreshMw, ratelimit.Middleware(d.Limiter, ratelimit.Options{Scope: "refresh", OnLimited: d.Metrics.RateLimited}))
	}

	auth := e.Group("/auth")
	auth.POST("/login", d.Auth.Login, loginMw...)
	auth.POST("/refresh", d.Auth.Refresh, refreshMw...)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/me", d.Auth.Me)

	users := e.Group("/users")
	users.POST("/register", d.Users.Register)
	users.GET("", d.Users.List)
	users.GET("/me/requests", d.Requests.ListMine)
	users.GET("/:id", d.Users.Get)
	users.PATCH("/:id", d.Users.Patch)
	users.DELETE("/:id", d.Users.Delete)
	users.GET("/:id/companies", d.Memberships.ListByUser)

	companies := e.Group("/companies")
	companies.POST("", d.Companies.Create)
	companies.GET("", d.Companies.List)
	companies.GET("/search", d.Companies.Search)
	companies.GET("/:id", d.Companies.Get)
	companies.PATCH("/:id", d.Companies.Patch)
	companies.DELETE("/:id", d.Companies.Delete)
	companies.POST("/:id/roles", d.Roles.Create)
	companies.GET("/:id/roles", d.Roles.List)
	companies.GET("/:id/members", d.Memberships.ListByCompany)
	companies.POST("/:id/requests", d.Requests.Create)
	companies.GET("/:id/requests", d.Requests.ListByCompany)

	roles := e.Group("/roles")
	roles.PATCH("/:id", d.Roles.Patch)
	roles.DELETE("/:id", d.Roles.Delete)
	roles.POST("/:id/workdays", d.WorkDays.Create)
	roles.POST("/:id/workdays/batch", d.WorkDays.BatchCreate)
	roles.POST("/:id/workdays/batch-delete", d.WorkDays.BatchDelete)
	roles.GET("/:id/workdays", d.WorkDays.List)

	e.PATCH("/memberships/:id", d.Memberships.AssignRole)
	e.DELETE("/memberships/:id", d.Memberships.Remove)

	e.POST("/requests/:id/approve", d.Requests.Approve)
	e.POST("/requests/:id/reject", d.Requests.Reject)

	e.PATCH("/workdays/:id", d.WorkDays.Patch)
	e.DELETE("/workdays/:id", d.WorkDays.Delete)
}
