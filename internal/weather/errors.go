package weather

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the caller. The renderer switches on it
// directly; nothing downstream needs to re-interpret provider responses.
type Kind string

const (
	// KindConfiguration means a missing or rejected credential. Fatal, never
	// retried, and when the credential is absent it is reported before any
	// network call is attempted.
	KindConfiguration Kind = "configuration"

	// KindLocationNotFound means geocoding ran fine and found nothing. A valid
	// negative answer, not an operational fault.
	KindLocationNotFound Kind = "location_not_found"

	// KindProviderUnavailable covers network errors, timeouts and 5xx from
	// either provider.
	KindProviderUnavailable Kind = "provider_unavailable"

	// KindRateLimited means the provider throttled us and the bounded retry
	// did not help.
	KindRateLimited Kind = "rate_limited"

	// KindNoData means the weather provider has nothing for an otherwise valid
	// location (common for alerts and astronomy in remote areas). Rendered as
	// "no data"; the command still exits successfully.
	KindNoData Kind = "no_data"

	// KindOrchestration is the catch-all: payloads that cannot be normalized,
	// invalid parameter combinations.
	KindOrchestration Kind = "orchestration"
)

// Failure is the uniform error value the core returns. It wraps the
// underlying cause so errors.Is/As keep working through it.
type Failure struct {
	Kind Kind
	Op   string
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %s", f.Op, f.Kind)
	}
	return fmt.Sprintf("%s: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// NewFailure wraps err as a Failure of the given kind.
func NewFailure(kind Kind, op string, err error) *Failure {
	return &Failure{Kind: kind, Op: op, Err: err}
}

// Failf builds a Failure from a format string.
func Failf(kind Kind, op, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the failure kind from err, or KindOrchestration when err is
// not a Failure.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindOrchestration
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
