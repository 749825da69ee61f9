package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/teamshift/internal/config"
	"github.com/Skotchmaster/teamshift/internal/events"
	"github.com/Skotchmaster/teamshift/internal/httpserver"
	"github.com/Skotchmaster/teamshift/internal/logging"
	"github.com/Skotchmaster/teamshift/internal/metrics"
	authmw "github.com/Skotchmaster/teamshift/internal/middleware/auth"
	"github.com/Skotchmaster/teamshift/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/teamshift/internal/middleware/logging"
	"github.com/Skotchmaster/teamshift/internal/ratelimit"
	"github.com/Skotchmaster/teamshift/internal/repo"
	"github.com/Skotchmaster/teamshift/internal/search"
	"github.com/Skotchmaster/teamshift/internal/service"
	"github.com/Skotchmaster/teamshift/pkg/db"
	"github.com/Skotchmaster/teamshift/pkg/tokens"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(cfg *config.Config) *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API and the admin (metrics) listeners",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cfg, !skipMigrate)
		},
	}
	cmd.Flags().StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "API listen address (env HTTP_ADDR)")
	cmd.Flags().StringVar(&cfg.AdminAddr, "admin-addr", cfg.AdminAddr, "metrics listen address (env ADMIN_ADDR)")
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not auto-migrate the schema on start")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	logger := logging.FromContext(ctx)

	if cfg.Auth.UsesDefaultSecret() {
		logger.Warn("insecure_secret_key", "reason", "SECRET_KEY is the development default")
	}

	gdb, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logger.Error("db_close_failed", "error", err)
		}
	}()

	r := repo.New(gdb)
	if migrate {
		if err := r.Migrate(ctx); err != nil {
			return err
		}
	}
	sessions := repo.NewSessions(gdb)
	policy := service.NewPolicy(r)

	codec, err := tokens.NewCodec([]byte(cfg.Auth.SecretKey), cfg.Auth.Algorithm, cfg.Auth.AccessTTL)
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewAsync(events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic), 0)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka_close_failed", "error", err)
		}
	}()

	var index service.CompanyIndex
	if cfg.ESURL != "" {
		ix, err := search.NewClient(ctx, search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Warn("search_unavailable", "error", err)
		} else {
			index = ix
		}
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			defer rdb.Close()
			limiter = ratelimit.NewRedisLimiter(rdb, "teamshift:rl:", cfg.RateLimit.Limit, cfg.RateLimit.Window)
		} else {
			limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
		}
	}

	m := metrics.New()

	authSvc := service.NewAuthService(r, sessions, codec, cfg.Auth.RefreshTTL)
	authSvc.DeleteOnLogout = cfg.Auth.DeleteOnLogout
	authSvc.Events = publisher

	session := authmw.NewSessionAuth(codec, cfg.Auth.AccessCookieName, cfg.Auth.PublicPaths)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger), m.Middleware())
	if cfg.Auth.CSRFEnabled {
		e.Use(csrf.Middleware(csrf.Config{
			Secure:            cfg.Auth.CookieSecure,
			SameSite:          cfg.Auth.CookieSameSite,
			Domain:            cfg.Auth.CookieDomain,
			EnforceSameOrigin: true,
			Skip:              session.IsPublic,
		}))
	}

	httpserver.Register(e, &httpserver.Deps{
		Auth:        &httpserver.AuthHTTP{Svc: authSvc, Cookies: httpserver.NewCookies(cfg.Auth), Metrics: m},
		Users:       &httpserver.UserHTTP{Svc: &service.UserService{Repo: r, Sessions: sessions, Events: publisher}},
		Companies:   &httpserver.CompanyHTTP{Svc: &service.CompanyService{Repo: r, Policy: policy, Index: index, Events: publisher}},
		Roles:       &httpserver.RoleHTTP{Svc: &service.RoleService{Repo: r, Policy: policy}},
		Memberships: &httpserver.MembershipHTTP{Svc: &service.MembershipService{Repo: r, Policy: policy}},
		Requests:    &httpserver.RequestHTTP{Svc: &service.RequestService{Repo: r, Policy: policy, Events: publisher}},
		WorkDays:    &httpserver.WorkDayHTTP{Svc: &service.WorkDayService{Repo: r, Policy: policy}},
		Session:     session,
		Limiter:     limiter,
		Metrics:     m,
		Ready:       r.Ping,
	})

	admin := echo.New()
	admin.HideBanner = true
	admin.GET("/metrics", echo.WrapHandler(m.Handler()))

	apiSrv := newHTTPServer(cfg.HTTPAddr, e)
	adminSrv := newHTTPServer(cfg.AdminAddr, admin)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return listen(gctx, apiSrv, "api") })
	g.Go(func() error { return listen(gctx, adminSrv, "admin") })
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting_down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(apiSrv.Shutdown(shutdownCtx), adminSrv.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown_complete")
	return nil
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func listen(ctx context.Context, srv *http.Server, name string) error {
	logging.FromContext(ctx).Info("listening", "server", name, "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
