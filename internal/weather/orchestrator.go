package weather

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// View identifies what the user asked to see.
type View string

const (
	ViewCurrent  View = "current"
	ViewForecast View = "forecast"
	ViewHistory  View = "history"
	ViewAlert    View = "alert"
	ViewStars    View = "stars"
	ViewGraph    View = "graph"
	ViewFind     View = "find"
)

// Limits the provider enforces on series lengths.
const (
	MaxForecastDays  = 10
	MaxForecastHours = 240
	MaxHistoryHours  = 24
)

// Params carries the per-view knobs.
type Params struct {
	Days   int  // daily forecast window
	Hours  int  // history window, or hourly forecast span
	Hourly bool // forecast granularity

	// Graph knobs: which metric to plot and how far the window reaches into
	// the past and the future. A window that spans "now" needs both the
	// history and the forecast sub-call.
	Metric      string
	PastHours   int
	FutureHours int

	Activity string
}

// Resolver turns a location token into a resolved place.
type Resolver interface {
	Resolve(ctx context.Context, token string) (ResolvedPlace, error)
}

// PartialFailure describes the failed half of a multi-call view.
type PartialFailure struct {
	Part   string `json:"part"`
	Kind   Kind   `json:"kind"`
	Reason string `json:"reason"`
}

// GraphData bundles the series a graph view plots.
type GraphData struct {
	Metric   string `json:"metric"`
	History  Series `json:"history,omitempty"`
	Forecast Series `json:"forecast,omitempty"`
}

// ViewResult is the orchestrator's output: normalized data for exactly one
// view, plus metadata. The renderer consumes it without further
// interpretation.
type ViewResult struct {
	RequestID   string        `json:"requestId"`
	View        View          `json:"view"`
	Place       ResolvedPlace `json:"place"`
	GeneratedAt time.Time     `json:"generatedAt"`

	Current   *Snapshot        `json:"current,omitempty"`
	Forecast  Series           `json:"forecast,omitempty"`
	History   Series           `json:"history,omitempty"`
	Alerts    []AlertRecord    `json:"alerts,omitempty"`
	Astronomy *AstronomyRecord `json:"astronomy,omitempty"`
	Graph     *GraphData       `json:"graph,omitempty"`
	Best      *ActivityScore   `json:"best,omitempty"`
	Scores    []ActivityScore  `json:"scores,omitempty"`

	// Partial is set when one sub-call of a multi-call view failed while
	// another succeeded. Never silently dropped.
	Partial *PartialFailure `json:"partial,omitempty"`
}

// Orchestrator resolves a location, plans and issues the gateway calls a view
// needs, normalizes the payloads, and derives local results. All failures
// come back as values; the orchestrator never terminates the process and
// never logs-and-swallows.
type Orchestrator struct {
	resolver   Resolver
	gateway    Gateway
	credential string
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewOrchestrator wires the core. credential is checked before any network
// call; an empty one fails fast as a configuration failure.
func NewOrchestrator(resolver Resolver, gateway Gateway, credential string, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		resolver:   resolver,
		gateway:    gateway,
		credential: credential,
		retryDelay: 500 * time.Millisecond,
		logger:     logger.With("component", "orchestrator"),
	}
}

// SetRetryDelay overrides the rate-limit backoff delay, for tests.
func (o *Orchestrator) SetRetryDelay(d time.Duration) { o.retryDelay = d }

// Execute runs the full pipeline for one view.
func (o *Orchestrator) Execute(ctx context.Context, view View, token string, params Params) (*ViewResult, error) {
	if o.credential == "" {
		return nil, Failf(KindConfiguration, "execute",
			"GOOGLE_MAPS_API_KEY is not set; check your configuration")
	}

	// Geocoder throttling gets the same bounded retry as the weather calls.
	var place ResolvedPlace
	err := o.withRetry(ctx, func() error {
		var resolveErr error
		place, resolveErr = o.resolver.Resolve(ctx, token)
		return resolveErr
	})
	if err != nil {
		return nil, err
	}
	o.logger.Debug("resolved place", "token", token, "display", place.DisplayName)

	result := &ViewResult{
		RequestID:   uuid.NewString(),
		View:        view,
		Place:       place,
		GeneratedAt: time.Now().UTC(),
	}

	switch view {
	case ViewCurrent:
		err = o.fetchCurrent(ctx, place.Coordinates, result)
	case ViewForecast:
		err = o.fetchForecast(ctx, place.Coordinates, params, result)
	case ViewHistory:
		err = o.fetchHistory(ctx, place.Coordinates, params, result)
	case ViewAlert:
		err = o.fetchAlerts(ctx, place.Coordinates, result)
	case ViewStars:
		err = o.fetchAstronomy(ctx, place.Coordinates, params, result)
	case ViewGraph:
		err = o.fetchGraph(ctx, place.Coordinates, params, result)
	case ViewFind:
		err = o.fetchFind(ctx, place.Coordinates, params, result)
	default:
		err = Failf(KindOrchestration, "execute", "unknown view %q", view)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (o *Orchestrator) fetchCurrent(ctx context.Context, coords Coordinates, result *ViewResult) error {
	var raw *RawCurrent
	err := o.withRetry(ctx, func() error {
		var fetchErr error
		raw, fetchErr = o.gateway.CurrentConditions(ctx, coords)
		return fetchErr
	})
	if err != nil {
		return err
	}
	result.Current, err = NormalizeCurrent(raw)
	return err
}

func (o *Orchestrator) fetchForecast(ctx context.Context, coords Coordinates, params Params, result *ViewResult) error {
	if params.Hourly {
		hours := clamp(params.Hours, 1, MaxForecastHours)
		var raw *RawHourlyForecast
		err := o.withRetry(ctx, func() error {
			var fetchErr error
			raw, fetchErr = o.gateway.HourlyForecast(ctx, coords, hours)
			return fetchErr
		})
		if err != nil {
			return err
		}
		result.Forecast, err = NormalizeHourly(raw)
		return err
	}

	days := clamp(params.Days, 1, MaxForecastDays)
	var raw *RawDailyForecast
	err := o.withRetry(ctx, func() error {
		var fetchErr error
		raw, fetchErr = o.gateway.DailyForecast(ctx, coords, days)
		return fetchErr
	})
	if err != nil {
		return err
	}
	result.Forecast, err = NormalizeDaily(raw)
	return err
}

func (o *Orchestrator) fetchHistory(ctx context.Context, coords Coordinates, params Params, result *ViewResult) error {
	// Out-of-range windows are clamped, not rejected: hours=48 behaves like
	// hours=24.
	hours := clamp(params.Hours, 1, MaxHistoryHours)

	var raw *RawHistory
	err := o.withRetry(ctx, func() error {
		var fetchErr error
		raw, fetchErr = o.gateway.History(ctx, coords, hours)
		return fetchErr
	})
	if err != nil {
		return err
	}
	result.History, err = NormalizeHistory(raw)
	return err
}

func (o *Orchestrator) fetchAlerts(ctx context.Context, coords Coordinates, result *ViewResult) error {
	var raw *RawAlerts
	err := o.withRetry(ctx, func() error {
		var fetchErr error
		raw, fetchErr = o.gateway.Alerts(ctx, coords)
		return fetchErr
	})
	if err != nil {
		// No alert coverage for a valid location is an empty answer.
		if IsKind(err, KindNoData) {
			result.Alerts = []AlertRecord{}
			return nil
		}
		return err
	}
	result.Alerts = NormalizeAlerts(raw)
	return nil
}

func (o *Orchestrator) fetchAstronomy(ctx context.Context, coords Coordinates, params Params, result *ViewResult) error {
	days := clamp(params.Days, 1, MaxForecastDays)

	var raw *RawAstronomy
	err := o.withRetry(ctx, func() error {
		var fetchErr error
		raw, fetchErr = o.gateway.Astronomy(ctx, coords, days)
		return fetchErr
	})
	if err != nil {
		return err
	}
	result.Astronomy, err = NormalizeAstronomy(raw)
	return err
}

// fetchGraph plans one or two calls depending on the requested window and
// issues them concurrently. When only one half fails the other half is still
// returned, surfaced as a partial result.
func (o *Orchestrator) fetchGraph(ctx context.Context, coords Coordinates, params Params, result *ViewResult) error {
	switch params.Metric {
	case "", "temp", "precip", "wind":
	default:
		return Failf(KindOrchestration, "fetch graph",
			"unknown metric %q (known: temp, precip, wind)", params.Metric)
	}

	needHistory := params.PastHours > 0
	needForecast := params.FutureHours > 0 || !needHistory

	graph := &GraphData{Metric: params.Metric}

	var (
		wg          sync.WaitGroup
		history     Series
		forecast    Series
		historyErr  error
		forecastErr error
	)

	if needHistory {
		hours := clamp(params.PastHours, 1, MaxHistoryHours)
		wg.Add(1)
		go func() {
			defer wg.Done()
			var raw *RawHistory
			historyErr = o.withRetry(ctx, func() error {
				var fetchErr error
				raw, fetchErr = o.gateway.History(ctx, coords, hours)
				return fetchErr
			})
			if historyErr == nil {
				history, historyErr = NormalizeHistory(raw)
			}
		}()
	}

	if needForecast {
		hours := clamp(params.FutureHours, 1, MaxForecastHours)
		wg.Add(1)
		go func() {
			defer wg.Done()
			var raw *RawHourlyForecast
			forecastErr = o.withRetry(ctx, func() error {
				var fetchErr error
				raw, fetchErr = o.gateway.HourlyForecast(ctx, coords, hours)
				return fetchErr
			})
			if forecastErr == nil {
				forecast, forecastErr = NormalizeHourly(raw)
			}
		}()
	}

	wg.Wait()

	switch {
	case historyErr != nil && forecastErr != nil:
		return forecastErr
	case historyErr != nil && needForecast:
		graph.Forecast = forecast
		result.Partial = &PartialFailure{
			Part:   "history",
			Kind:   KindOf(historyErr),
			Reason: historyErr.Error(),
		}
	case forecastErr != nil && needHistory:
		graph.History = history
		result.Partial = &PartialFailure{
			Part:   "forecast",
			Kind:   KindOf(forecastErr),
			Reason: forecastErr.Error(),
		}
	case historyErr != nil:
		return historyErr
	case forecastErr != nil:
		return forecastErr
	default:
		graph.History = history
		graph.Forecast = forecast
	}

	result.Graph = graph
	return nil
}

// fetchFind is one forecast call followed by a pure local scoring pass.
func (o *Orchestrator) fetchFind(ctx context.Context, coords Coordinates, params Params, result *ViewResult) error {
	if err := o.fetchForecast(ctx, coords, Params{Days: params.Days}, result); err != nil {
		return err
	}

	best, scores, err := BestDay(result.Forecast, params.Activity)
	if err != nil {
		return err
	}
	result.Best = &best
	result.Scores = scores
	return nil
}

// withRetry runs fn, retrying exactly once with a jittered delay when the
// provider throttles us. Every other failure kind propagates immediately.
func (o *Orchestrator) withRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || !IsKind(err, KindRateLimited) {
		return err
	}

	delay := o.retryDelay
	if delay > 0 {
		delay += time.Duration(rand.Int63n(int64(delay)))
	}
	o.logger.Debug("rate limited, backing off", "delay", delay)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return NewFailure(KindProviderUnavailable, "execute", ctx.Err())
	case <-timer.C:
	}

	return fn()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
