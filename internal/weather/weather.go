// Package weather looks up current conditions for a free-text location using
// the OpenWeather geocoding and current weather endpoints.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/ChamsBouzaiene/harvest/internal/session"
)

// DefaultBaseURL is the public OpenWeather API.
const DefaultBaseURL = "https://api.openweathermap.org"

// ErrLocationNotFound is returned by Fetch when geocoding yields no results.
var ErrLocationNotFound = errors.New("location not found")

// Client chains a geocoding lookup and a current conditions lookup.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client. An empty apiKey is accepted; lookups then fail softly.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the current conditions at location, or nil when they are
// unavailable for any reason. It never returns an error; the cause is logged.
func (c *Client) Get(ctx context.Context, location string) *session.WeatherSnapshot {
	snap, err := c.Fetch(ctx, location)
	if err != nil {
		if errors.Is(err, ErrLocationNotFound) {
			c.logger.Info("weather location not found", zap.String("location", location))
		} else {
			c.logger.Warn("weather lookup failed", zap.String("location", location), zap.Error(err))
		}
		return nil
	}
	return snap
}

// Fetch is Get with the failure reason exposed.
func (c *Client) Fetch(ctx context.Context, location string) (*session.WeatherSnapshot, error) {
	if c.apiKey == "" {
		return nil, errors.New("OPENWEATHER_API_KEY not set")
	}

	lat, lon, err := c.geocode(ctx, location)
	if err != nil {
		return nil, err
	}
	return c.current(ctx, lat, lon)
}

type geoResult struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

func (c *Client) geocode(ctx context.Context, location string) (float64, float64, error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("limit", "1")
	q.Set("appid", c.apiKey)

	var results []geoResult
	if err := c.getJSON(ctx, "/geo/1.0/direct", q, &results); err != nil {
		return 0, 0, fmt.Errorf("geocode: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, ErrLocationNotFound
	}
	if results[0].Lat == nil || results[0].Lon == nil {
		return 0, 0, errors.New("geocode: result has no coordinates")
	}
	return *results[0].Lat, *results[0].Lon, nil
}

type currentResponse struct {
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

func (c *Client) current(ctx context.Context, lat, lon float64) (*session.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprint(lat))
	q.Set("lon", fmt.Sprint(lon))
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	var resp currentResponse
	if err := c.getJSON(ctx, "/data/2.5/weather", q, &resp); err != nil {
		return nil, fmt.Errorf("current weather: %w", err)
	}
	if resp.Main == nil || len(resp.Weather) == 0 {
		return nil, errors.New("current weather: incomplete response")
	}

	// Halves round to even: 21.5 reads 22, 22.5 reads 22.
	return &session.WeatherSnapshot{
		TemperatureC: int(math.RoundToEven(resp.Main.Temp)),
		HumidityPct:  resp.Main.Humidity,
		Description:  resp.Weather[0].Description,
		IconID:       resp.Weather[0].Icon,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
