package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "{}\n"))
	t.Setenv("WEATHER_API_KEY", "")
	t.Setenv("AUTH_MODE", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Dallas", cfg.Weather.City)
	require.Equal(t, "US", cfg.Weather.Country)
	require.Equal(t, "imperial", cfg.Weather.Units)
	require.Empty(t, cfg.Weather.APIKey)
	require.Equal(t, 7, cfg.Retention.WeatherDays)
	require.Equal(t, 3, cfg.Retention.StatsDays)
	require.Equal(t, 30, cfg.Retention.APILogDays)
	require.Equal(t, 5*time.Minute, cfg.Jobs.StatsInterval)
	require.Equal(t, 30*time.Minute, cfg.Jobs.WeatherInterval)
	require.Equal(t, 2, cfg.Jobs.SweepHour)
	require.Equal(t, "America/Chicago", cfg.Jobs.SweepTimezone)
	require.Equal(t, AuthModeNone, cfg.Auth.Mode)
}

func TestLoadFileThenEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, `
http:
  address: ":9090"
weather:
  city: Austin
  units: metric
retention:
  statsDays: 5
jobs:
  statsInterval: 1m
`))
	t.Setenv("WEATHER_CITY", "Houston")
	t.Setenv("WEATHER_API_KEY", "k3y")
	t.Setenv("SYSTEM_STATS_RETAIN_DAYS", "9")
	t.Setenv("VALKEY_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "Houston", cfg.Weather.City)
	require.Equal(t, "metric", cfg.Weather.Units)
	require.Equal(t, "k3y", cfg.Weather.APIKey)
	require.Equal(t, 9, cfg.Retention.StatsDays)
	require.Equal(t, time.Minute, cfg.Jobs.StatsInterval)
	require.True(t, cfg.Valkey.Enabled)
	require.Equal(t, "localhost:6379", cfg.Valkey.Addr)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"bad units":          func(c *Config) { c.Weather.Units = "kelvin" },
		"jwt without secret": func(c *Config) { c.Auth.Mode = AuthModeJWT },
		"unknown auth":       func(c *Config) { c.Auth.Mode = "basic" },
		"zero horizon":       func(c *Config) { c.Retention.APILogDays = 0 },
		"sweep hour":         func(c *Config) { c.Jobs.SweepHour = 24 },
		"bad zone":           func(c *Config) { c.Notify.Timezone = "Mars/Olympus" },
		"valkey without addr": func(c *Config) {
			c.Valkey.Enabled = true
		},
		"archive without bucket": func(c *Config) {
			c.Archive.Enabled = true
			c.Archive.Endpoint = "https://r2.example.com"
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}

	cfg := defaultConfig()
	cfg.Auth.Mode = AuthModeJWT
	cfg.Auth.Secret = "s3cret"
	require.NoError(t, cfg.Validate())
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, ,http://b "))
}
