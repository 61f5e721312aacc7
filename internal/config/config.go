package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint string

	Auth          AuthConfig
	Redis         RedisConfig
	Bootstrap     BootstrapConfig
	Observability ObservabilityConfig

	// BusinessTimezone anchors "today" and "this month" for dashboards and schedulers.
	BusinessTimezone string
	// SchedulerJobs limits which jobs this process runs; empty runs all of them.
	SchedulerJobs string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
}

type AuthConfig struct {
	JWTSecret        string
	JWTRefreshSecret string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	LoginRatePerMinute float64
	LoginBurst         int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ObservabilityConfig carries the logging and OTLP export knobs.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string
	// SlowRequest promotes request logs above this duration to warn; zero disables it.
	SlowRequest time.Duration

	OtelEnabled       bool
	OtelProtocol      string
	OtelSamplingRatio float64
}

type BootstrapConfig struct {
	EnsureDemoCompany bool
	OwnerEmail        string
	OwnerPassword     string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")

	cfg := Config{
		AppName:      getenv("APP_SERVICE", "washdesk"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:  environment,
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		OTLPEndpoint: getenv("OTEL_EXPORTER_OTLP_ENDPOINT", getenv("OTLP_ENDPOINT", "")),
		Auth: AuthConfig{
			JWTSecret:          strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
			JWTRefreshSecret:   strings.TrimSpace(getenv("AUTH_JWT_REFRESH_SECRET", "")),
			AccessTTL:          getenvDuration("AUTH_ACCESS_TTL", 900*time.Second),
			RefreshTTL:         getenvDuration("AUTH_REFRESH_TTL", 7*24*time.Hour),
			LoginRatePerMinute: float64(getenvInt64("LOGIN_RATE_PER_MINUTE", 10)),
			LoginBurst:         int(getenvInt64("LOGIN_BURST", 5)),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       int(getenvInt64("REDIS_DB", 0)),
		},
		Bootstrap: BootstrapConfig{
			EnsureDemoCompany: getenvBool("BOOTSTRAP_DEMO", environment != "production"),
			OwnerEmail:        strings.TrimSpace(getenv("BOOTSTRAP_OWNER_EMAIL", "owner@washdesk.local")),
			OwnerPassword:     getenv("BOOTSTRAP_OWNER_PASSWORD", "washdesk"),
		},
		Observability: ObservabilityConfig{
			LogLevel:          strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),
			LogFormat:         strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "json"))),
			SlowRequest:       getenvDuration("LOG_SLOW_REQUEST", 2*time.Second),
			OtelProtocol:      strings.ToLower(strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
			OtelSamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", defaultSamplingRatio(environment)),
		},
		BusinessTimezone:  getenv("BUSINESS_TIMEZONE", "America/Sao_Paulo"),
		SchedulerJobs:     getenv("SCHEDULER_JOBS", ""),
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "washdesk"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     int(getenvInt64("DATABASE_MAX_IDLE_CONN", 10)),
		DBMaxOpenConn:     int(getenvInt64("DATABASE_MAX_OPEN_CONN", 50)),
		DBConnMaxLifetime: int(getenvInt64("DATABASE_CONN_MAX_LIFETIME", 300)),
		DBConnMaxIdleTime: int(getenvInt64("DATABASE_CONN_MAX_IDLE_TIME", 60)),
	}

	// Exporting is opt-in: without an endpoint there is nothing to ship spans to.
	cfg.Observability.OtelEnabled = getenvBool("OTEL_ENABLED", strings.TrimSpace(cfg.OTLPEndpoint) != "")

	// Refresh tokens fall back to the access secret so a single-secret deploy still works.
	if cfg.Auth.JWTRefreshSecret == "" {
		cfg.Auth.JWTRefreshSecret = cfg.Auth.JWTSecret
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

// Location resolves BusinessTimezone, defaulting to UTC when the zone is unknown.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(strings.TrimSpace(c.BusinessTimezone))
	if err != nil || loc == nil {
		return time.UTC
	}
	return loc
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 || parsed > 1 {
		return def
	}
	return parsed
}

func defaultSamplingRatio(environment string) float64 {
	if strings.EqualFold(strings.TrimSpace(environment), "production") {
		return 0.1
	}
	return 1
}

// getenvDuration accepts Go durations ("15m") or plain seconds ("900").
func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
		return parsed
	}
	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return def
}
