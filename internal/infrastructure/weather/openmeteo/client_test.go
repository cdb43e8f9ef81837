package openmeteo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"llm-workflow/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forecastBody = `{
	"latitude": 13.125,
	"longitude": 80.25,
	"current_units": {"time": "iso8601", "interval": "seconds", "temperature_2m": "°C", "wind_speed_10m": "km/h"},
	"current": {"time": "2024-05-01T10:00", "interval": 900, "temperature_2m": 33.4, "wind_speed_10m": 14.2}
}`

func TestClient_Current(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"latitude":  r.URL.Query().Get("latitude"),
			"longitude": r.URL.Query().Get("longitude"),
			"current":   r.URL.Query().Get("current"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})

	current, err := client.Current(context.Background(), entity.Coordinates{Latitude: 13.0827, Longitude: 80.2707})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"latitude":  "13.0827",
		"longitude": "80.2707",
		"current":   "temperature_2m,wind_speed_10m",
	}, gotQuery)
	assert.Equal(t, 33.4, current.Temperature)
	assert.Equal(t, 14.2, current.WindSpeed)
	assert.Equal(t, 900, current.Interval)
	assert.Equal(t, "°C", current.Units["temperature_2m"])
}

func TestClient_CurrentAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": true, "reason": "Latitude must be in range of -90 to 90°. Given: 120.0."}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})

	_, err := client.Current(context.Background(), entity.Coordinates{Latitude: 120})

	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrToolFailed))
	assert.ErrorContains(t, err, "Latitude must be in range")
}

func TestClient_CurrentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL}).Current(context.Background(), entity.Coordinates{})

	assert.True(t, errors.Is(err, entity.ErrToolFailed))
	assert.ErrorContains(t, err, "status 502")
}

func TestClient_CurrentMissingBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"latitude": 1}`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL}).Current(context.Background(), entity.Coordinates{})

	assert.True(t, errors.Is(err, entity.ErrToolFailed))
}

func TestClient_CurrentUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(Config{BaseURL: url}).Current(context.Background(), entity.Coordinates{})

	assert.True(t, errors.Is(err, entity.ErrToolFailed))
}
