package geocode

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atmoscli/atmos/internal/places"
	"github.com/atmoscli/atmos/internal/weather"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memorySource map[string]string

func (m memorySource) Get(name string) (string, error) {
	if addr, ok := m[name]; ok {
		return addr, nil
	}
	return "", places.ErrNotFound
}

func newTestResolver(t *testing.T, source PlaceSource, handler http.HandlerFunc) *Resolver {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	resolver := NewResolver(server.Client(), source, "test-key", testLogger())
	resolver.SetBaseURL(server.URL)
	return resolver
}

const berlinResponse = `{
	"status": "OK",
	"results": [{
		"formatted_address": "Berlin, Germany",
		"geometry": {"location": {"lat": 52.52, "lng": 13.405}}
	}]
}`

func TestResolveRawAddress(t *testing.T) {
	resolver := newTestResolver(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "Berlin" {
			t.Errorf("address = %q, want Berlin", got)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q, want test-key", got)
		}
		w.Write([]byte(berlinResponse))
	})

	place, err := resolver.Resolve(context.Background(), "Berlin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place.DisplayName != "Berlin, Germany" {
		t.Errorf("display name = %q", place.DisplayName)
	}
	if place.Latitude != 52.52 || place.Longitude != 13.405 {
		t.Errorf("coordinates = %v,%v", place.Latitude, place.Longitude)
	}
}

func TestResolveSubstitutesSavedPlace(t *testing.T) {
	source := memorySource{"Home": "123 Main St, Springfield"}
	resolver := newTestResolver(t, source, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "123 Main St, Springfield" {
			t.Errorf("address = %q, want stored address", got)
		}
		w.Write([]byte(berlinResponse))
	})

	if _, err := resolver.Resolve(context.Background(), "Home"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveUnknownTokenGoesVerbatim(t *testing.T) {
	source := memorySource{"Home": "123 Main St"}
	resolver := newTestResolver(t, source, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "Paris" {
			t.Errorf("address = %q, want Paris", got)
		}
		w.Write([]byte(berlinResponse))
	})

	if _, err := resolver.Resolve(context.Background(), "Paris"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveZeroResultsIsLocationNotFound(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "zero results status", body: `{"status": "ZERO_RESULTS", "results": []}`},
		{name: "empty results array", body: `{"status": "OK", "results": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := newTestResolver(t, nil, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := resolver.Resolve(context.Background(), "Atlantis")
			if !weather.IsKind(err, weather.KindLocationNotFound) {
				t.Fatalf("expected location-not-found, got %v", err)
			}
		})
	}
}

func TestResolveServerErrorIsProviderUnavailable(t *testing.T) {
	resolver := newTestResolver(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := resolver.Resolve(context.Background(), "Berlin")
	if !weather.IsKind(err, weather.KindProviderUnavailable) {
		t.Fatalf("expected provider unavailable, got %v", err)
	}
}

func TestResolveCredentialRejected(t *testing.T) {
	resolver := newTestResolver(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := resolver.Resolve(context.Background(), "Berlin")
	if !weather.IsKind(err, weather.KindConfiguration) {
		t.Fatalf("expected configuration failure, got %v", err)
	}
}

func TestResolveEmptyToken(t *testing.T) {
	resolver := newTestResolver(t, nil, func(w http.ResponseWriter, r *http.Request) {
		t.Error("geocoder must not be called for an empty token")
	})

	_, err := resolver.Resolve(context.Background(), "   ")
	if !weather.IsKind(err, weather.KindOrchestration) {
		t.Fatalf("expected orchestration failure, got %v", err)
	}
}

func TestResolveMissingDisplayNameFallsBack(t *testing.T) {
	resolver := newTestResolver(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "OK",
			"results": [{"geometry": {"location": {"lat": 1, "lng": 2}}}]
		}`))
	})

	place, err := resolver.Resolve(context.Background(), "Somewhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if place.DisplayName != "Somewhere" {
		t.Errorf("display name = %q, want the query itself", place.DisplayName)
	}
}
