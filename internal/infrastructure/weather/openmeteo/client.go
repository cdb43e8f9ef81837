package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"llm-workflow/internal/application/port/output"
	"llm-workflow/internal/domain/entity"
)

var _ output.WeatherPort = (*Client)(nil)

const (
	DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"
	currentFields  = "temperature_2m,wind_speed_10m"
	maxErrorBody   = 4096
)

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     output.LoggerPort
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     output.LoggerPort
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}
}

type forecastResponse struct {
	Current      *entity.CurrentWeather `json:"current"`
	CurrentUnits map[string]string      `json:"current_units"`
	Error        bool                   `json:"error"`
	Reason       string                 `json:"reason"`
}

func (c *Client) Current(ctx context.Context, coords entity.Coordinates) (*entity.CurrentWeather, error) {
	const op = "open-meteo current weather"

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, entity.WrapError(err, entity.KindToolFailed, op, "invalid base url")
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	q.Set("current", currentFields)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, entity.WrapError(err, entity.KindToolFailed, op, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, entity.WrapError(err, entity.KindToolFailed, op, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, entity.WrapError(err, entity.KindToolFailed, op, "read response")
	}

	var parsed forecastResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode != http.StatusOK || parsed.Error {
		reason := parsed.Reason
		if reason == "" {
			reason = string(truncate(body, maxErrorBody))
		}
		return nil, entity.NewError(entity.KindToolFailed, op, fmt.Sprintf("status %d: %s", resp.StatusCode, reason))
	}
	if decodeErr != nil {
		return nil, entity.WrapError(decodeErr, entity.KindToolFailed, op, "decode response")
	}
	if parsed.Current == nil {
		return nil, entity.NewError(entity.KindToolFailed, op, "response has no current block")
	}

	parsed.Current.Units = parsed.CurrentUnits
	if c.logger != nil {
		c.logger.Debug("Current weather received",
			"latitude", coords.Latitude,
			"longitude", coords.Longitude,
			"temperature", parsed.Current.Temperature)
	}
	return parsed.Current, nil
}

func truncate(b []byte, limit int) []byte {
	if len(b) <= limit {
		return b
	}
	return b[:limit]
}
