package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/opsdash/internal/domain/weather"
	"github.com/yanqian/opsdash/pkg/util"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	defaultTimeout = 10 * time.Second
	serviceName    = "openweathermap"
	metersPerMile  = 1609.34
)

// Client fetches current conditions from OpenWeatherMap.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client. Zero values pick the public endpoint and a 10s
// timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	u := strings.TrimSpace(baseURL)
	if u == "" {
		u = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(u, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Name() string {
	return serviceName
}

// Endpoint renders the request URL with the API key redacted.
func (c *Client) Endpoint(q weather.Query) string {
	return c.buildURL(q, "REDACTED")
}

// Current retrieves and normalizes the current conditions for q.
func (c *Client) Current(ctx context.Context, q weather.Query) (weather.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(q, q.APIKey), nil)
	if err != nil {
		return weather.Result{}, weather.NewUpstreamError(0, fmt.Errorf("build weather request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return weather.Result{}, weather.NewUpstreamError(0, fmt.Errorf("weather request failed: %w", redact(err, q.APIKey)))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return weather.Result{}, weather.NewUpstreamError(resp.StatusCode, fmt.Errorf("weather request error: body=%s", strings.TrimSpace(string(payload))))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return weather.Result{}, weather.NewUpstreamError(resp.StatusCode, fmt.Errorf("read weather response: %w", err))
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return weather.Result{}, weather.NewUpstreamError(resp.StatusCode, fmt.Errorf("decode weather response: %w", err))
	}
	snap, err := normalize(raw)
	if err != nil {
		return weather.Result{}, weather.NewUpstreamError(resp.StatusCode, err)
	}
	return weather.Result{Snapshot: snap, StatusCode: resp.StatusCode}, nil
}

func (c *Client) buildURL(q weather.Query, key string) string {
	params := url.Values{}
	params.Set("q", q.City+","+q.Country)
	params.Set("appid", key)
	params.Set("units", q.Units)
	return c.baseURL + "?" + params.Encode()
}

type apiResponse struct {
	Name       string       `json:"name"`
	Sys        apiSys       `json:"sys"`
	Main       apiMain      `json:"main"`
	Conditions []apiWeather `json:"weather"`
	Wind       *apiWind     `json:"wind"`
	Visibility *float64     `json:"visibility"`
}

type apiSys struct {
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

type apiMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Humidity  float64 `json:"humidity"`
	Pressure  float64 `json:"pressure"`
}

type apiWeather struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type apiWind struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}

var errNoConditions = errors.New("weather response has no conditions")

func normalize(raw apiResponse) (weather.Snapshot, error) {
	if len(raw.Conditions) == 0 {
		return weather.Snapshot{}, errNoConditions
	}
	snap := weather.Snapshot{
		City:        raw.Name,
		Country:     raw.Sys.Country,
		TempF:       raw.Main.Temp,
		FeelsLikeF:  raw.Main.FeelsLike,
		TempMinF:    raw.Main.TempMin,
		TempMaxF:    raw.Main.TempMax,
		Humidity:    raw.Main.Humidity,
		Pressure:    raw.Main.Pressure,
		Description: raw.Conditions[0].Description,
		IconCode:    raw.Conditions[0].Icon,
		SunriseUTC:  raw.Sys.Sunrise,
		SunsetUTC:   raw.Sys.Sunset,
	}
	if raw.Wind != nil {
		snap.WindSpeedMPH = raw.Wind.Speed
		snap.WindDeg = raw.Wind.Deg
	}
	if raw.Visibility != nil {
		miles := util.Round2(*raw.Visibility / metersPerMile)
		snap.VisibilityMi = &miles
	}
	return snap, nil
}

// redact strips the API key from transport errors, which embed the request URL with
// the key query-escaped.
func redact(err error, key string) error {
	if key == "" {
		return err
	}
	msg := err.Error()
	for _, form := range []string{key, url.QueryEscape(key)} {
		msg = strings.ReplaceAll(msg, form, "REDACTED")
	}
	if msg == err.Error() {
		return err
	}
	return &redactedError{msg: msg, err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }

var _ weather.Provider = (*Client)(nil)
