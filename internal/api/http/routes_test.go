package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/atmoscli/atmos/internal/weather"
)

type stubResolver struct {
	err error
}

func (s *stubResolver) Resolve(context.Context, string) (weather.ResolvedPlace, error) {
	if s.err != nil {
		return weather.ResolvedPlace{}, s.err
	}
	return weather.ResolvedPlace{
		DisplayName: "Testville",
		Coordinates: weather.Coordinates{Latitude: 1, Longitude: 2},
	}, nil
}

type stubGateway struct {
	astronomyErr error
}

func (s *stubGateway) CurrentConditions(context.Context, weather.Coordinates) (*weather.RawCurrent, error) {
	return &weather.RawCurrent{CurrentConditions: &weather.RawConditions{
		Time:        "2025-06-01T12:00:00Z",
		Temperature: &weather.RawMeasurement{Value: weather.Float(20), Units: "CELSIUS"},
	}}, nil
}

func (s *stubGateway) DailyForecast(context.Context, weather.Coordinates, int) (*weather.RawDailyForecast, error) {
	return &weather.RawDailyForecast{ForecastDays: []weather.RawForecastDay{
		{DisplayDate: "2025-06-01"},
	}}, nil
}

func (s *stubGateway) HourlyForecast(context.Context, weather.Coordinates, int) (*weather.RawHourlyForecast, error) {
	return &weather.RawHourlyForecast{}, nil
}

func (s *stubGateway) History(context.Context, weather.Coordinates, int) (*weather.RawHistory, error) {
	return &weather.RawHistory{HistoryHours: []weather.RawConditions{
		{Time: "2025-06-01T10:00:00Z"},
	}}, nil
}

func (s *stubGateway) Alerts(context.Context, weather.Coordinates) (*weather.RawAlerts, error) {
	return &weather.RawAlerts{}, nil
}

func (s *stubGateway) Astronomy(context.Context, weather.Coordinates, int) (*weather.RawAstronomy, error) {
	if s.astronomyErr != nil {
		return nil, s.astronomyErr
	}
	return &weather.RawAstronomy{Days: []weather.RawAstronomyDay{{Date: "2025-06-01"}}}, nil
}

func newTestApp(resolver weather.Resolver, gateway weather.Gateway, credential string) *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := weather.NewOrchestrator(resolver, gateway, credential, logger)
	orch.SetRetryDelay(0)

	app := fiber.New()
	RegisterRoutes(app, orch)
	return app
}

func TestCurrentEndpoint(t *testing.T) {
	app := newTestApp(&stubResolver{}, &stubGateway{}, "test-key")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/weather/current?location=Testville", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Place weather.ResolvedPlace `json:"place"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Place.DisplayName != "Testville" {
		t.Errorf("place = %q", body.Place.DisplayName)
	}
}

func TestMissingLocationIsBadRequest(t *testing.T) {
	app := newTestApp(&stubResolver{}, &stubGateway{}, "test-key")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/weather/forecast", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestOutOfRangeDaysIsBadRequest(t *testing.T) {
	app := newTestApp(&stubResolver{}, &stubGateway{}, "test-key")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/weather/forecast?location=Testville&days=99", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestNonIntegerHoursIsBadRequest(t *testing.T) {
	app := newTestApp(&stubResolver{}, &stubGateway{}, "test-key")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/weather/history?location=Testville&hours=soon", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestMissingCredentialIsServiceUnavailable(t *testing.T) {
	app := newTestApp(&stubResolver{}, &stubGateway{}, "")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/weather/current?location=Testville", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestUnknownLocationIsNotFound(t *testing.T) {
	resolver := &stubResolver{
		err: weather.Failf(weather.KindLocationNotFound, "resolve location", "location not found: Atlantis"),
	}
	app := newTestApp(resolver, &stubGateway{}, "test-key")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/weather/current?location=Atlantis", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestNoDataIsEmptyAnswerNotError(t *testing.T) {
	gateway := &stubGateway{
		astronomyErr: weather.Failf(weather.KindNoData, "fetch astronomy", "no data (status 404)"),
	}
	app := newTestApp(&stubResolver{}, gateway, "test-key")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/weather/astronomy?location=Testville", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["noData"] != true {
		t.Errorf("body = %v, want noData=true", body)
	}
}
