package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"sportsdesk/internal/adapters/broadcast"
)

// Config lists the tunable parameters for the desk.
type Config struct {
	Addr            string
	Store           string // sqlite, redis or memory
	DBPath          string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RedisNamespace  string
	BookingAPI      string
	BookingTimeout  time.Duration // zero leaves the transport's own behaviour
	Secret          string
	LogLevel        string
	SlowQuery       time.Duration
	SlowRequest     time.Duration
	RateLimit       int
	MQTTBroker      string
	MQTTTopic       string
	ResendKey       string
	EmailFrom       string
	ReplyTo         string
	RefreshInterval time.Duration // zero disables the background refresh
	SitePath        string
	User            string
	SecureCookies   bool
	TrustedOrigins  []string
	TrustProxy      bool // honour X-Forwarded-For / X-Real-IP
	Site            Site
}

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

const (
	defaultAddr           = ":8080"
	defaultDBPath         = "sportsdesk.db"
	defaultRedisAddr      = "localhost:6379"
	defaultRedisNamespace = "sportsdesk"
	defaultBookingAPI     = "http://localhost:5000/api"
	defaultLogLevel       = "info"
	defaultSlowQuery      = 50 * time.Millisecond
	defaultSlowRequest    = 200 * time.Millisecond
	defaultRateLimit      = 10
	defaultEmailFrom      = "Sports Desk <noreply@sportsdesk.local>"
	defaultSitePath       = "site.hcl"
)

// Load reads .env (if present), then SPORTSDESK_* variables, then the site file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	site, err := LoadSite(cfg.SitePath)
	if err != nil {
		return Config{}, err
	}
	cfg.Site = site
	return cfg, nil
}

// FromEnv derives configuration values from environment variables, falling back to defaults.
// The site is left empty.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:           envOrDefault("SPORTSDESK_ADDR", defaultAddr),
		Store:          strings.ToLower(envOrDefault("SPORTSDESK_STORE", StoreSQLite)),
		DBPath:         envOrDefault("SPORTSDESK_DB_PATH", defaultDBPath),
		RedisAddr:      envOrDefault("SPORTSDESK_REDIS_ADDR", defaultRedisAddr),
		RedisPassword:  os.Getenv("SPORTSDESK_REDIS_PASSWORD"),
		RedisNamespace: envOrDefault("SPORTSDESK_REDIS_NAMESPACE", defaultRedisNamespace),
		BookingAPI:     envOrDefault("SPORTSDESK_BOOKING_API", defaultBookingAPI),
		Secret:         os.Getenv("SPORTSDESK_SECRET"),
		LogLevel:       envOrDefault("SPORTSDESK_LOG_LEVEL", defaultLogLevel),
		MQTTBroker:     os.Getenv("SPORTSDESK_MQTT_BROKER"),
		MQTTTopic:      envOrDefault("SPORTSDESK_MQTT_TOPIC", broadcast.DefaultTopic),
		ResendKey:      os.Getenv("SPORTSDESK_RESEND_KEY"),
		EmailFrom:      envOrDefault("SPORTSDESK_EMAIL_FROM", defaultEmailFrom),
		ReplyTo:        os.Getenv("SPORTSDESK_REPLY_TO"),
		SitePath:       envOrDefault("SPORTSDESK_SITE", defaultSitePath),
		User:           os.Getenv("SPORTSDESK_USER"),
		TrustedOrigins: splitList(os.Getenv("SPORTSDESK_TRUSTED_ORIGINS")),
	}

	switch cfg.Store {
	case StoreSQLite, StoreRedis, StoreMemory:
	default:
		return Config{}, fmt.Errorf("invalid SPORTSDESK_STORE %q: want sqlite, redis or memory", cfg.Store)
	}

	var err error
	if cfg.RedisDB, err = envInt("SPORTSDESK_REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit, err = envInt("SPORTSDESK_RATE_LIMIT", defaultRateLimit); err != nil {
		return Config{}, err
	}
	if cfg.BookingTimeout, err = envDuration("SPORTSDESK_BOOKING_TIMEOUT", 0); err != nil {
		return Config{}, err
	}
	if cfg.RefreshInterval, err = envDuration("SPORTSDESK_REFRESH_INTERVAL", 0); err != nil {
		return Config{}, err
	}
	if cfg.SlowQuery, err = envMillis("SPORTSDESK_SLOW_QUERY_MS", defaultSlowQuery); err != nil {
		return Config{}, err
	}
	if cfg.SlowRequest, err = envMillis("SPORTSDESK_SLOW_REQUEST_MS", defaultSlowRequest); err != nil {
		return Config{}, err
	}
	if cfg.SecureCookies, err = envBool("SPORTSDESK_SECURE_COOKIES", false); err != nil {
		return Config{}, err
	}
	if cfg.TrustProxy, err = envBool("SPORTSDESK_TRUST_PROXY", false); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LogLevel maps a level name to a slog level; unknown names mean info.
func LogLevel(level string) slog.Leveler {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	lv := new(slog.LevelVar)
	lv.Set(lvl)
	return lv
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envMillis(key string, fallback time.Duration) (time.Duration, error) {
	n, err := envInt(key, int(fallback/time.Millisecond))
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Millisecond, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
