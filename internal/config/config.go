package config

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	env "github.com/Skotchmaster/teamshift/pkg/config"
)

const DefaultSecretKey = "change-me-super-secret"

type Config struct {
	LogLevel string

	HTTPAddr  string
	AdminAddr string

	DatabaseURL string

	Auth      AuthConfig
	RateLimit RateLimitConfig

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type AuthConfig struct {
	SecretKey  string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	AccessCookieName  string
	RefreshCookieName string
	CookieSecure      bool
	CookieSameSite    http.SameSite
	CookieDomain      string

	// DeleteOnLogout hard-deletes the session row instead of revoking it.
	DeleteOnLogout bool

	PublicPaths []string
	CSRFEnabled bool
}

type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

var DefaultPublicPaths = []string{
	"/auth/login",
	"/auth/refresh",
	"/auth/logout",
	"/users/register",
	"/docs",
	"/openapi.json",
	"/health",
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := Config{
		LogLevel: env.EnvDefault("LOG_LEVEL", "info"),

		HTTPAddr:  env.EnvDefault("HTTP_ADDR", ":8080"),
		AdminAddr: env.EnvDefault("ADMIN_ADDR", ":9090"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		Auth: AuthConfig{
			SecretKey:  env.EnvDefault("SECRET_KEY", DefaultSecretKey),
			Algorithm:  env.EnvDefault("JWT_ALGORITHM", "HS256"),
			AccessTTL:  time.Duration(env.EnvIntDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 15)) * time.Minute,
			RefreshTTL: time.Duration(env.EnvIntDefault("REFRESH_TOKEN_EXPIRE_DAYS", 30)) * 24 * time.Hour,

			AccessCookieName:  env.EnvDefault("ACCESS_COOKIE_NAME", "access_token"),
			RefreshCookieName: env.EnvDefault("REFRESH_COOKIE_NAME", "refresh_token"),
			CookieSecure:      env.EnvBoolDefault("COOKIE_SECURE", true),
			CookieSameSite:    ParseSameSite(env.EnvDefault("COOKIE_SAMESITE", "lax")),
			CookieDomain:      os.Getenv("COOKIE_DOMAIN"),

			DeleteOnLogout: env.EnvBoolDefault("AUTH_LOGOUT_DELETE", false),

			PublicPaths: DefaultPublicPaths,
			CSRFEnabled: env.EnvBoolDefault("CSRF_ENABLED", false),
		},

		RateLimit: RateLimitConfig{
			Enabled: env.EnvBoolDefault("RATE_LIMIT_ENABLED", true),
			Limit:   env.EnvIntDefault("RATE_LIMIT_AUTH", 10),
			Window:  env.EnvDurationDefault("RATE_LIMIT_WINDOW", time.Minute),
		},

		KafkaBrokers: env.CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   env.EnvDefault("KAFKA_TOPIC", "teamshift_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    env.EnvDefault("ES_INDEX", "companies"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       env.EnvIntDefault("REDIS_DB", 0),
	}

	if extra := env.CSV(os.Getenv("AUTH_PUBLIC_PATHS")); len(extra) > 0 {
		cfg.Auth.PublicPaths = append(append([]string{}, DefaultPublicPaths...), extra...)
	}

	return cfg
}

func ParseSameSite(v string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// UsesDefaultSecret reports whether the signing key was left at its development value.
func (c AuthConfig) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}
