package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/atmoscli/atmos/internal/weather"
)

const defaultWeatherBaseURL = "https://weather.googleapis.com/v1"

// GoogleWeather is the weather.Gateway implementation for the Google Maps
// Platform Weather API.
type GoogleWeather struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewGoogleWeather builds the gateway. The credential is injected here, never
// read from ambient state at call time.
func NewGoogleWeather(client *http.Client, apiKey string, logger *slog.Logger) *GoogleWeather {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "google-weather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &GoogleWeather{
		apiKey:  apiKey,
		baseURL: defaultWeatherBaseURL,
		httpCfg: HTTPClientConfig{Client: client},
		circuit: cb,
		logger:  logger.With("component", "google-weather"),
	}
}

// SetBaseURL overrides the endpoint base, for tests.
func (g *GoogleWeather) SetBaseURL(u string) { g.baseURL = u }

func (g *GoogleWeather) query(coords weather.Coordinates) url.Values {
	values := url.Values{}
	values.Set("location.latitude", fmt.Sprintf("%f", coords.Latitude))
	values.Set("location.longitude", fmt.Sprintf("%f", coords.Longitude))
	values.Set("unitsSystem", "METRIC")
	values.Set("key", g.apiKey)
	return values
}

func (g *GoogleWeather) get(ctx context.Context, op, path string, values url.Values) ([]byte, error) {
	resp, err := doRequest(ctx, g.httpCfg, g.circuit, op, func() (*http.Request, error) {
		u := fmt.Sprintf("%s%s?%s", g.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, weather.NewFailure(weather.KindProviderUnavailable, op, err)
	}
	g.logger.Debug("provider response", "op", op, "bytes", len(body))
	return body, nil
}

// CurrentConditions fetches current weather for the coordinates.
func (g *GoogleWeather) CurrentConditions(ctx context.Context, coords weather.Coordinates) (*weather.RawCurrent, error) {
	const op = "fetch current conditions"

	body, err := g.get(ctx, op, "/currentConditions:lookup", g.query(coords))
	if err != nil {
		return nil, err
	}

	var payload weather.RawCurrent
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, weather.NewFailure(weather.KindOrchestration, op, err)
	}
	if payload.CurrentConditions == nil {
		// Some API revisions return the conditions object at the top level.
		var flat weather.RawConditions
		if err := json.Unmarshal(body, &flat); err == nil {
			payload.Flat = &flat
		}
	}
	return &payload, nil
}

// DailyForecast fetches up to days daily forecast entries.
func (g *GoogleWeather) DailyForecast(ctx context.Context, coords weather.Coordinates, days int) (*weather.RawDailyForecast, error) {
	const op = "fetch daily forecast"

	values := g.query(coords)
	values.Set("days", strconv.Itoa(days))

	body, err := g.get(ctx, op, "/forecast/days:lookup", values)
	if err != nil {
		return nil, err
	}

	var payload weather.RawDailyForecast
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, weather.NewFailure(weather.KindOrchestration, op, err)
	}
	return &payload, nil
}

// HourlyForecast fetches up to hours hourly forecast entries.
func (g *GoogleWeather) HourlyForecast(ctx context.Context, coords weather.Coordinates, hours int) (*weather.RawHourlyForecast, error) {
	const op = "fetch hourly forecast"

	values := g.query(coords)
	values.Set("hours", strconv.Itoa(hours))

	body, err := g.get(ctx, op, "/forecast/hours:lookup", values)
	if err != nil {
		return nil, err
	}

	var payload weather.RawHourlyForecast
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, weather.NewFailure(weather.KindOrchestration, op, err)
	}
	return &payload, nil
}

// History fetches up to hours of observed history, newest window first.
func (g *GoogleWeather) History(ctx context.Context, coords weather.Coordinates, hours int) (*weather.RawHistory, error) {
	const op = "fetch history"

	values := g.query(coords)
	values.Set("hours", strconv.Itoa(hours))

	body, err := g.get(ctx, op, "/history/hours:lookup", values)
	if err != nil {
		return nil, err
	}

	var payload weather.RawHistory
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, weather.NewFailure(weather.KindOrchestration, op, err)
	}
	return &payload, nil
}

// Alerts fetches active public alerts for the coordinates.
func (g *GoogleWeather) Alerts(ctx context.Context, coords weather.Coordinates) (*weather.RawAlerts, error) {
	const op = "fetch alerts"

	body, err := g.get(ctx, op, "/publicAlerts:lookup", g.query(coords))
	if err != nil {
		return nil, err
	}

	var payload weather.RawAlerts
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, weather.NewFailure(weather.KindOrchestration, op, err)
	}
	return &payload, nil
}

// Astronomy fetches sun and moon data for up to days days.
func (g *GoogleWeather) Astronomy(ctx context.Context, coords weather.Coordinates, days int) (*weather.RawAstronomy, error) {
	const op = "fetch astronomy"

	values := g.query(coords)
	values.Set("days", strconv.Itoa(days))

	body, err := g.get(ctx, op, "/astronomy:lookup", values)
	if err != nil {
		return nil, err
	}

	var payload weather.RawAstronomy
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, weather.NewFailure(weather.KindOrchestration, op, err)
	}
	return &payload, nil
}
