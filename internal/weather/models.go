package weather

import (
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Snapshot is one normalized reading, point-in-time or point-in-sequence.
// Optional fields are pointers: nil means the provider did not report the
// value. Normalization never turns an absent field into a zero.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"` // always UTC

	Temperature       *float64 `json:"temperatureC,omitempty"`
	FeelsLike         *float64 `json:"feelsLikeC,omitempty"`
	HighTemperature   *float64 `json:"highTemperatureC,omitempty"`
	LowTemperature    *float64 `json:"lowTemperatureC,omitempty"`
	PrecipProbability *float64 `json:"precipProbabilityPct,omitempty"`
	PrecipRate        *float64 `json:"precipRateMmH,omitempty"`
	WindSpeed         *float64 `json:"windSpeedKph,omitempty"`
	WindGust          *float64 `json:"windGustKph,omitempty"`
	WindDirection     *string  `json:"windDirection,omitempty"`
	Humidity          *float64 `json:"humidityPct,omitempty"`
	CloudCover        *float64 `json:"cloudCoverPct,omitempty"`
	Visibility        *float64 `json:"visibilityM,omitempty"`
	Pressure          *float64 `json:"pressureHpa,omitempty"`
	UVIndex           *int     `json:"uvIndex,omitempty"`
	MoonPhase         *string  `json:"moonPhase,omitempty"`

	Description string    `json:"description,omitempty"`
	Condition   Condition `json:"condition"`
}

// Series is an ordered sequence of snapshots: ascending timestamps, no
// duplicates. NormalizeSeries is the only producer.
type Series []Snapshot

// AlertKind buckets provider alert events into the handful of categories the
// renderer distinguishes.
type AlertKind string

const (
	AlertTornado     AlertKind = "tornado"
	AlertFlood       AlertKind = "flood"
	AlertWinterStorm AlertKind = "winter-storm"
	AlertOther       AlertKind = "other"
)

// AlertRecord is a normalized public weather alert.
type AlertRecord struct {
	Kind        AlertKind `json:"kind"`
	Event       string    `json:"event"`
	Severity    string    `json:"severity"`
	Headline    string    `json:"headline"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source,omitempty"`
	Effective   time.Time `json:"effective"`
	Expires     time.Time `json:"expires"`
}

// AstronomyRecord describes sun and moon conditions for one day.
type AstronomyRecord struct {
	Date            time.Time  `json:"date"`
	Sunrise         *time.Time `json:"sunrise,omitempty"`
	Sunset          *time.Time `json:"sunset,omitempty"`
	MoonPhase       *string    `json:"moonPhase,omitempty"`
	CloudCover      *float64   `json:"cloudCoverPct,omitempty"`
	StargazingScore *float64   `json:"stargazingScore,omitempty"`
	Rating          string     `json:"rating,omitempty"`
	Constellations  []string   `json:"constellations,omitempty"`
}

// ActivityScore is the scored suitability of one forecast day for an
// activity. Derived locally from a forecast series, never fetched.
type ActivityScore struct {
	Date     time.Time `json:"date"`
	Activity string    `json:"activity"`
	Score    float64   `json:"score"`
	Reasons  []string  `json:"reasons,omitempty"`
}

// Float returns a pointer to v, for building optional fields.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
