package providers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atmoscli/atmos/internal/weather"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *GoogleWeather {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider := NewGoogleWeather(server.Client(), "test-key", testLogger())
	provider.SetBaseURL(server.URL)
	return provider
}

func TestCurrentConditionsDecodesNestedPayload(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/currentConditions:lookup" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"currentConditions": {
				"time": "2025-06-01T12:00:00Z",
				"temperature": {"value": 21.5, "units": "CELSIUS"},
				"humidity": 40
			}
		}`))
	})

	raw, err := provider.CurrentConditions(context.Background(), weather.Coordinates{Latitude: 52.52, Longitude: 13.405})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	conditions := raw.Conditions()
	if conditions == nil {
		t.Fatal("expected conditions")
	}
	if conditions.Temperature == nil || conditions.Temperature.Value == nil || *conditions.Temperature.Value != 21.5 {
		t.Errorf("temperature = %+v, want 21.5", conditions.Temperature)
	}
}

func TestCurrentConditionsDecodesFlatPayload(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"time": "2025-06-01T12:00:00Z",
			"temperature": {"value": 7, "units": "CELSIUS"}
		}`))
	})

	raw, err := provider.CurrentConditions(context.Background(), weather.Coordinates{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	conditions := raw.Conditions()
	if conditions == nil || conditions.Temperature == nil || *conditions.Temperature.Value != 7 {
		t.Fatalf("flat payload not decoded: %+v", conditions)
	}
}

func TestRequestCarriesCoordinatesAndUnits(t *testing.T) {
	var query map[string]string
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"location.latitude":  r.URL.Query().Get("location.latitude"),
			"location.longitude": r.URL.Query().Get("location.longitude"),
			"unitsSystem":        r.URL.Query().Get("unitsSystem"),
			"key":                r.URL.Query().Get("key"),
			"days":               r.URL.Query().Get("days"),
		}
		w.Write([]byte(`{"forecastDays": []}`))
	})

	_, err := provider.DailyForecast(context.Background(), weather.Coordinates{Latitude: 48.8566, Longitude: 2.3522}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query["location.latitude"] != "48.856600" {
		t.Errorf("latitude = %q", query["location.latitude"])
	}
	if query["location.longitude"] != "2.352200" {
		t.Errorf("longitude = %q", query["location.longitude"])
	}
	if query["unitsSystem"] != "METRIC" {
		t.Errorf("unitsSystem = %q, want METRIC", query["unitsSystem"])
	}
	if query["key"] != "test-key" {
		t.Errorf("key = %q", query["key"])
	}
	if query["days"] != "5" {
		t.Errorf("days = %q, want 5", query["days"])
	}
}

func TestStatusCodeClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   weather.Kind
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, kind: weather.KindConfiguration},
		{name: "forbidden", status: http.StatusForbidden, kind: weather.KindConfiguration},
		{name: "throttled", status: http.StatusTooManyRequests, kind: weather.KindRateLimited},
		{name: "no coverage", status: http.StatusNotFound, kind: weather.KindNoData},
		{name: "server error", status: http.StatusInternalServerError, kind: weather.KindProviderUnavailable},
		{name: "bad gateway", status: http.StatusBadGateway, kind: weather.KindProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := provider.CurrentConditions(context.Background(), weather.Coordinates{})
			if !weather.IsKind(err, tt.kind) {
				t.Errorf("status %d classified as %v, want %v", tt.status, weather.KindOf(err), tt.kind)
			}
		})
	}
}

func TestMalformedBodyIsOrchestrationFailure(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"forecastHours": [`))
	})

	_, err := provider.HourlyForecast(context.Background(), weather.Coordinates{}, 24)
	if !weather.IsKind(err, weather.KindOrchestration) {
		t.Errorf("malformed body classified as %v, want orchestration", weather.KindOf(err))
	}
}

func TestAlertsDecodesRecords(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/publicAlerts:lookup" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"alerts": [
				{"event": "Tornado Warning", "headline": "Seek shelter", "severity": "EXTREME"}
			]
		}`))
	})

	raw, err := provider.Alerts(context.Background(), weather.Coordinates{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw.Alerts) != 1 || raw.Alerts[0].Event != "Tornado Warning" {
		t.Fatalf("alerts = %+v", raw.Alerts)
	}
}
