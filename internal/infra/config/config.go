package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Valkey    ValkeyConfig    `yaml:"valkey"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Weather   WeatherConfig   `yaml:"weather"`
	SysStats  SysStatsConfig  `yaml:"sysstats"`
	Notify    NotifyConfig    `yaml:"notify"`
	Retention RetentionConfig `yaml:"retention"`
	Jobs      JobsConfig      `yaml:"jobs"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	CORSOrigins  []string        `yaml:"corsOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// AuthConfig selects the API authorizer.
type AuthConfig struct {
	Mode   string `yaml:"mode"`
	Secret string `yaml:"secret"`
}

// PostgresConfig contains DSN and pooling settings. An empty DSN selects memory storage.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig controls the latest-snapshot cache.
type ValkeyConfig struct {
	Enabled bool          `yaml:"enabled"`
	Addr    string        `yaml:"addr"`
	TTL     time.Duration `yaml:"ttl"`
}

// ArchiveConfig points at the bucket receiving retention reports.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
}

// WeatherConfig configures the weather provider and query.
type WeatherConfig struct {
	APIKey         string        `yaml:"apiKey"`
	BaseURL        string        `yaml:"baseUrl"`
	City           string        `yaml:"city"`
	Country        string        `yaml:"country"`
	Units          string        `yaml:"units"`
	Timeout        time.Duration `yaml:"timeout"`
	HistoryDefault int           `yaml:"historyDefault"`
	HistoryMax     int           `yaml:"historyMax"`
}

// SysStatsConfig configures the host sampler.
type SysStatsConfig struct {
	ThermalPath    string        `yaml:"thermalPath"`
	DiskPath       string        `yaml:"diskPath"`
	SampleWindow   time.Duration `yaml:"sampleWindow"`
	HistoryDefault int           `yaml:"historyDefault"`
	HistoryMax     int           `yaml:"historyMax"`
}

// NotifyConfig sets the zone reminder windows are read in.
type NotifyConfig struct {
	Timezone  string `yaml:"timezone"`
	ZoneLabel string `yaml:"zoneLabel"`
}

// RetentionConfig holds per-table horizons in days.
type RetentionConfig struct {
	WeatherDays int `yaml:"weatherDays"`
	StatsDays   int `yaml:"statsDays"`
	APILogDays  int `yaml:"apiLogDays"`
}

// JobsConfig drives the background scheduler.
type JobsConfig struct {
	StatsInterval   time.Duration `yaml:"statsInterval"`
	WeatherInterval time.Duration `yaml:"weatherInterval"`
	SweepHour       int           `yaml:"sweepHour"`
	SweepMinute     int           `yaml:"sweepMinute"`
	SweepTimezone   string        `yaml:"sweepTimezone"`
}

const (
	AuthModeNone = "none"
	AuthModeJWT  = "jwt"
)

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	envString("HTTP_ADDRESS", &cfg.HTTP.Address)
	envBool("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	envInt("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	envInt("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}

	envString("AUTH_MODE", &cfg.Auth.Mode)
	envString("AUTH_JWT_SECRET", &cfg.Auth.Secret)

	envString("POSTGRES_DSN", &cfg.Postgres.DSN)
	envInt32("POSTGRES_MAX_CONNS", &cfg.Postgres.MaxConns)
	envInt32("POSTGRES_MIN_CONNS", &cfg.Postgres.MinConns)

	envBool("VALKEY_ENABLED", &cfg.Valkey.Enabled)
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
		if os.Getenv("VALKEY_ENABLED") == "" {
			cfg.Valkey.Enabled = true
		}
	}
	envDuration("VALKEY_TTL", &cfg.Valkey.TTL)

	envBool("ARCHIVE_ENABLED", &cfg.Archive.Enabled)
	envString("ARCHIVE_ENDPOINT", &cfg.Archive.Endpoint)
	envString("ARCHIVE_ACCESS_KEY", &cfg.Archive.AccessKey)
	envString("ARCHIVE_SECRET_KEY", &cfg.Archive.SecretKey)
	envString("ARCHIVE_BUCKET", &cfg.Archive.Bucket)
	envString("ARCHIVE_REGION", &cfg.Archive.Region)
	envString("ARCHIVE_PREFIX", &cfg.Archive.Prefix)

	envString("WEATHER_API_KEY", &cfg.Weather.APIKey)
	envString("WEATHER_BASE_URL", &cfg.Weather.BaseURL)
	envString("WEATHER_CITY", &cfg.Weather.City)
	envString("WEATHER_COUNTRY", &cfg.Weather.Country)
	envString("WEATHER_UNITS", &cfg.Weather.Units)
	envDuration("WEATHER_TIMEOUT", &cfg.Weather.Timeout)

	envString("SYSTEM_STATS_THERMAL_PATH", &cfg.SysStats.ThermalPath)
	envString("SYSTEM_STATS_DISK_PATH", &cfg.SysStats.DiskPath)

	envString("NOTIFY_TIMEZONE", &cfg.Notify.Timezone)

	envInt("WEATHER_RETAIN_DAYS", &cfg.Retention.WeatherDays)
	envInt("SYSTEM_STATS_RETAIN_DAYS", &cfg.Retention.StatsDays)
	envInt("API_LOG_RETAIN_DAYS", &cfg.Retention.APILogDays)

	envDuration("JOBS_STATS_INTERVAL", &cfg.Jobs.StatsInterval)
	envDuration("JOBS_WEATHER_INTERVAL", &cfg.Jobs.WeatherInterval)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func envInt32(key string, dst *int32) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(parsed)
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":3000",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			CORSOrigins: []string{"*"},
		},
		Auth: AuthConfig{
			Mode: AuthModeNone,
		},
		Postgres: PostgresConfig{
			MaxConns: 10,
		},
		Valkey: ValkeyConfig{
			TTL: 30 * time.Minute,
		},
		Archive: ArchiveConfig{
			Region: "auto",
			Prefix: "retention",
		},
		Weather: WeatherConfig{
			BaseURL:        "https://api.openweathermap.org/data/2.5/weather",
			City:           "Dallas",
			Country:        "US",
			Units:          "imperial",
			Timeout:        10 * time.Second,
			HistoryDefault: 48,
			HistoryMax:     200,
		},
		SysStats: SysStatsConfig{
			ThermalPath:    "/sys/class/thermal/thermal_zone0/temp",
			DiskPath:       "/",
			SampleWindow:   200 * time.Millisecond,
			HistoryDefault: 12,
			HistoryMax:     288,
		},
		Notify: NotifyConfig{
			Timezone:  "America/Chicago",
			ZoneLabel: "CST",
		},
		Retention: RetentionConfig{
			WeatherDays: 7,
			StatsDays:   3,
			APILogDays:  30,
		},
		Jobs: JobsConfig{
			StatsInterval:   5 * time.Minute,
			WeatherInterval: 30 * time.Minute,
			SweepHour:       2,
			SweepMinute:     0,
			SweepTimezone:   "America/Chicago",
		},
	}
}

// Validate ensures the configuration is safe to use. A missing weather API key is
// valid and disables fetching.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	switch c.Auth.Mode {
	case AuthModeNone:
	case AuthModeJWT:
		if strings.TrimSpace(c.Auth.Secret) == "" {
			return errors.New("auth.secret cannot be empty when auth.mode is jwt")
		}
	default:
		return fmt.Errorf("auth.mode %q is not one of none, jwt", c.Auth.Mode)
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when the cache is enabled")
	}
	if c.Valkey.TTL < 0 {
		return errors.New("valkey.ttl cannot be negative")
	}
	if c.Archive.Enabled {
		if strings.TrimSpace(c.Archive.Endpoint) == "" {
			return errors.New("archive.endpoint cannot be empty when the archive is enabled")
		}
		if strings.TrimSpace(c.Archive.Bucket) == "" {
			return errors.New("archive.bucket cannot be empty when the archive is enabled")
		}
	}
	switch c.Weather.Units {
	case "imperial", "metric", "standard":
	default:
		return fmt.Errorf("weather.units %q is not one of imperial, metric, standard", c.Weather.Units)
	}
	if strings.TrimSpace(c.Weather.City) == "" {
		return errors.New("weather.city cannot be empty")
	}
	if c.Weather.Timeout <= 0 {
		return errors.New("weather.timeout must be positive")
	}
	if c.SysStats.SampleWindow <= 0 {
		return errors.New("sysstats.sampleWindow must be positive")
	}
	if c.Retention.WeatherDays <= 0 || c.Retention.StatsDays <= 0 || c.Retention.APILogDays <= 0 {
		return errors.New("retention horizons must be positive")
	}
	if c.Jobs.StatsInterval <= 0 || c.Jobs.WeatherInterval <= 0 {
		return errors.New("jobs intervals must be positive")
	}
	if c.Jobs.SweepHour < 0 || c.Jobs.SweepHour > 23 || c.Jobs.SweepMinute < 0 || c.Jobs.SweepMinute > 59 {
		return fmt.Errorf("jobs sweep time %02d:%02d is out of range", c.Jobs.SweepHour, c.Jobs.SweepMinute)
	}
	if _, err := time.LoadLocation(c.Jobs.SweepTimezone); err != nil {
		return fmt.Errorf("jobs.sweepTimezone: %w", err)
	}
	if _, err := time.LoadLocation(c.Notify.Timezone); err != nil {
		return fmt.Errorf("notify.timezone: %w", err)
	}
	return nil
}
