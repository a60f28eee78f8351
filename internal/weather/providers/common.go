// Package providers holds the HTTP clients for the upstream providers.
package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/atmoscli/atmos/internal/weather"
)

// HTTPClientConfig bundles the shared outbound HTTP client. The client's
// Timeout is the per-call bound; a timed-out call fails as provider
// unavailable.
type HTTPClientConfig struct {
	Client *http.Client
}

// doRequest executes a single outbound request through the circuit breaker
// and maps the transport outcome onto the failure taxonomy. Exactly one
// attempt: retry policy belongs to the orchestrator, not the transport.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	op string,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, weather.Failf(weather.KindOrchestration, op, "http client not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, weather.NewFailure(weather.KindProviderUnavailable, op, err)
	}

	req, err := buildRequest()
	if err != nil {
		return nil, weather.NewFailure(weather.KindOrchestration, op, err)
	}
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, weather.NewFailure(weather.KindProviderUnavailable, op, execErr)
		}
		if failure := classifyStatus(op, resp.StatusCode); failure != nil {
			resp.Body.Close()
			return nil, failure
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, weather.NewFailure(weather.KindProviderUnavailable, op, err)
		}
		var f *weather.Failure
		if errors.As(err, &f) {
			return nil, err
		}
		return nil, weather.NewFailure(weather.KindProviderUnavailable, op, err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, weather.Failf(weather.KindOrchestration, op, "unexpected result type from circuit breaker")
	}
	return resp, nil
}

// classifyStatus maps an HTTP status to a failure, or nil for success.
func classifyStatus(op string, status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return weather.Failf(weather.KindConfiguration, op, "credential rejected (status %d)", status)
	case status == http.StatusTooManyRequests:
		return weather.Failf(weather.KindRateLimited, op, "rate limited (status %d)", status)
	case status == http.StatusNotFound:
		return weather.Failf(weather.KindNoData, op, "no data (status %d)", status)
	case status >= 500:
		return weather.Failf(weather.KindProviderUnavailable, op, "provider error (status %d)", status)
	default:
		return weather.Failf(weather.KindOrchestration, op, "unexpected status %d", status)
	}
}
