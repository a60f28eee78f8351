// Package geocode resolves free-form location tokens to coordinates. A token
// that names a saved place is substituted with its stored address before
// geocoding; anything else is sent to the geocoder verbatim.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/atmoscli/atmos/internal/places"
	"github.com/atmoscli/atmos/internal/weather"
)

const defaultGeocodeBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// PlaceSource is the slice of the places registry the resolver needs.
type PlaceSource interface {
	Get(name string) (string, error)
}

// Resolver turns a raw location token into a resolved place. Saved-place
// lookup always takes precedence over treating the token as a raw address.
// One attempt per call; retrying is the caller's decision.
type Resolver struct {
	places  PlaceSource
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewResolver builds a resolver. placeSource may be nil when no registry is
// available (serve mode without a places file, tests).
func NewResolver(client *http.Client, placeSource PlaceSource, apiKey string, logger *slog.Logger) *Resolver {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "google-geocode",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Resolver{
		places:  placeSource,
		apiKey:  apiKey,
		baseURL: defaultGeocodeBaseURL,
		client:  client,
		circuit: cb,
		logger:  logger.With("component", "geocode"),
	}
}

// SetBaseURL overrides the endpoint, for tests.
func (r *Resolver) SetBaseURL(u string) { r.baseURL = u }

// Resolve maps a token to coordinates and a display name.
func (r *Resolver) Resolve(ctx context.Context, token string) (weather.ResolvedPlace, error) {
	const op = "resolve location"

	query := strings.TrimSpace(token)
	if query == "" {
		return weather.ResolvedPlace{}, weather.Failf(weather.KindOrchestration, op, "empty location")
	}

	if r.places != nil {
		if addr, err := r.places.Get(query); err == nil {
			r.logger.Debug("substituted saved place", "token", query)
			query = addr
		} else if !errors.Is(err, places.ErrNotFound) {
			return weather.ResolvedPlace{}, weather.NewFailure(weather.KindOrchestration, op, err)
		}
	}

	return r.geocode(ctx, op, query)
}

func (r *Resolver) geocode(ctx context.Context, op, address string) (weather.ResolvedPlace, error) {
	values := url.Values{}
	values.Set("address", address)
	values.Set("key", r.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s?%s", r.baseURL, values.Encode()), nil)
	if err != nil {
		return weather.ResolvedPlace{}, weather.NewFailure(weather.KindOrchestration, op, err)
	}

	result, err := r.circuit.Execute(func() (interface{}, error) {
		resp, execErr := r.client.Do(req)
		if execErr != nil {
			return nil, weather.NewFailure(weather.KindProviderUnavailable, op, execErr)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, weather.Failf(weather.KindConfiguration, op, "credential rejected (status %d)", resp.StatusCode)
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, weather.Failf(weather.KindRateLimited, op, "rate limited (status %d)", resp.StatusCode)
		case resp.StatusCode >= 500:
			return nil, weather.Failf(weather.KindProviderUnavailable, op, "geocoder error (status %d)", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return nil, weather.Failf(weather.KindOrchestration, op, "unexpected status %d", resp.StatusCode)
		}

		var payload geocodeResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr != nil {
			return nil, weather.NewFailure(weather.KindOrchestration, op, decodeErr)
		}
		return &payload, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return weather.ResolvedPlace{}, weather.NewFailure(weather.KindProviderUnavailable, op, err)
		}
		var f *weather.Failure
		if errors.As(err, &f) {
			return weather.ResolvedPlace{}, err
		}
		return weather.ResolvedPlace{}, weather.NewFailure(weather.KindProviderUnavailable, op, err)
	}

	payload := result.(*geocodeResponse)

	// A clean response with zero results is a data answer, not a fault.
	if len(payload.Results) == 0 || strings.EqualFold(payload.Status, "ZERO_RESULTS") {
		return weather.ResolvedPlace{}, weather.Failf(weather.KindLocationNotFound, op, "location not found: %s", address)
	}

	first := payload.Results[0]
	place := weather.ResolvedPlace{
		DisplayName: first.FormattedAddress,
		Coordinates: weather.Coordinates{
			Latitude:  first.Geometry.Location.Lat,
			Longitude: first.Geometry.Location.Lng,
		},
	}
	if place.DisplayName == "" {
		place.DisplayName = address
	}

	r.logger.Debug("resolved location",
		"address", address,
		"lat", place.Latitude,
		"lng", place.Longitude,
	)
	return place, nil
}

// geocodeResponse is the Google geocoding API shape, reduced to the fields
// the resolver reads.
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}
