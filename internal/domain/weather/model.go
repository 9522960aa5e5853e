package weather

import "time"

// Snapshot is one normalized, persisted weather observation.
type Snapshot struct {
	ID           int64     `json:"id,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	TempF        float64   `json:"temp_f"`
	FeelsLikeF   float64   `json:"feels_like_f"`
	TempMinF     float64   `json:"temp_min_f"`
	TempMaxF     float64   `json:"temp_max_f"`
	Humidity     float64   `json:"humidity"`
	Pressure     float64   `json:"pressure"`
	Description  string    `json:"description"`
	IconCode     string    `json:"icon_code"`
	WindSpeedMPH float64   `json:"wind_speed_mph"`
	WindDeg      float64   `json:"wind_deg"`
	VisibilityMi *float64  `json:"visibility_mi"`
	SunriseUTC   int64     `json:"sunrise_utc"`
	SunsetUTC    int64     `json:"sunset_utc"`
}

// APICall audits one attempt against an external provider.
type APICall struct {
	ID           int64
	CalledAt     time.Time
	Service      string
	Endpoint     string
	StatusCode   *int
	ResponseMS   int64
	Success      bool
	ErrorMessage *string
}

// Query selects the location and unit system requested from the provider.
type Query struct {
	City    string
	Country string
	Units   string
	APIKey  string
}

// Result is a successful provider response.
type Result struct {
	Snapshot   Snapshot
	StatusCode int
}

// Config wires runtime knobs for the weather domain.
type Config struct {
	APIKey         string
	City           string
	Country        string
	Units          string
	HistoryDefault int
	HistoryMax     int
}

const (
	// MaxEndpointLen bounds the audited endpoint string.
	MaxEndpointLen = 499

	defaultHistoryLimit   = 48
	defaultHistoryMaximum = 200
)

func (c Config) withDefaults() Config {
	if c.City == "" {
		c.City = "Dallas"
	}
	if c.Country == "" {
		c.Country = "US"
	}
	if c.Units == "" {
		c.Units = "imperial"
	}
	if c.HistoryDefault <= 0 {
		c.HistoryDefault = defaultHistoryLimit
	}
	if c.HistoryMax <= 0 {
		c.HistoryMax = defaultHistoryMaximum
	}
	return c
}
