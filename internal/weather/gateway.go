package weather

import (
	"context"
)

// Coordinates is a resolved geographic point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ResolvedPlace is a location token reduced to coordinates plus a display
// name. Immutable once produced; lives for one invocation only.
type ResolvedPlace struct {
	DisplayName string `json:"displayName"`
	Coordinates
}

// Gateway is the transport to the upstream weather provider. One operation
// per view kind, one outbound request per operation. Implementations map
// transport-level failures to the Kind taxonomy and never interpret payload
// contents; that is the normalizer's job.
type Gateway interface {
	CurrentConditions(ctx context.Context, coords Coordinates) (*RawCurrent, error)
	DailyForecast(ctx context.Context, coords Coordinates, days int) (*RawDailyForecast, error)
	HourlyForecast(ctx context.Context, coords Coordinates, hours int) (*RawHourlyForecast, error)
	History(ctx context.Context, coords Coordinates, hours int) (*RawHistory, error)
	Alerts(ctx context.Context, coords Coordinates) (*RawAlerts, error)
	Astronomy(ctx context.Context, coords Coordinates, days int) (*RawAstronomy, error)
}

// Raw payload shapes. Every leaf is optional: the provider guarantees
// nothing, so presence is always checked, never assumed.

// RawMeasurement is a value with a unit, e.g. {"value": 15.5, "units": "CELSIUS"}.
type RawMeasurement struct {
	Value *float64 `json:"value"`
	Units string   `json:"units"`
}

// RawWind mirrors the provider's wind object.
type RawWind struct {
	Speed     *float64 `json:"speed"`
	Gust      *float64 `json:"gust"`
	Direction *string  `json:"direction"`
}

// RawPrecipitation mirrors the provider's precipitation object.
type RawPrecipitation struct {
	Type        string   `json:"type"`
	Rate        *float64 `json:"rate"`
	Probability *float64 `json:"probability"`
}

// RawConditions is one observed or forecast reading.
type RawConditions struct {
	Time                 string            `json:"time"`
	Temperature          *RawMeasurement   `json:"temperature"`
	FeelsLikeTemperature *RawMeasurement   `json:"feelsLikeTemperature"`
	Humidity             *float64          `json:"humidity"`
	ConditionDescription string            `json:"conditionDescription"`
	Wind                 *RawWind          `json:"wind"`
	Precipitation        *RawPrecipitation `json:"precipitation"`
	UVIndex              *int              `json:"uvIndex"`
	Visibility           *float64          `json:"visibility"`
	Pressure             *float64          `json:"pressure"`
	CloudCover           *float64          `json:"cloudCover"`
}

// RawCurrent is the currentConditions:lookup response. Older API revisions
// return the conditions object flat instead of nested.
type RawCurrent struct {
	CurrentConditions *RawConditions `json:"currentConditions"`
	Flat              *RawConditions `json:"-"`
}

// Conditions returns whichever shape the provider used.
func (r *RawCurrent) Conditions() *RawConditions {
	if r.CurrentConditions != nil {
		return r.CurrentConditions
	}
	return r.Flat
}

// RawForecastDay is one entry of the daily forecast response.
type RawForecastDay struct {
	DisplayDate              string          `json:"displayDate"`
	HighTemperature          *RawMeasurement `json:"highTemperature"`
	LowTemperature           *RawMeasurement `json:"lowTemperature"`
	PrecipitationProbability *float64        `json:"precipitationProbability"`
	MaxWind                  *RawWind        `json:"maxWind"`
	CloudCover               *float64        `json:"cloudCover"`
	MoonPhase                *string         `json:"moonPhase"`
	SunriseTime              string          `json:"sunriseTime"`
	SunsetTime               string          `json:"sunsetTime"`
	ConditionDescription     string          `json:"conditionDescription"`
}

// RawDailyForecast is the forecast/days:lookup response.
type RawDailyForecast struct {
	ForecastDays []RawForecastDay `json:"forecastDays"`
}

// RawHourlyForecast is the forecast/hours:lookup response.
type RawHourlyForecast struct {
	ForecastHours []RawConditions `json:"forecastHours"`
}

// RawHistory is the history/hours:lookup response.
type RawHistory struct {
	HistoryHours []RawConditions `json:"historyHours"`
}

// RawAlert is one entry of the public alerts response.
type RawAlert struct {
	Headline    string `json:"headline"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Urgency     string `json:"urgency"`
	Certainty   string `json:"certainty"`
	Event       string `json:"event"`
	SenderName  string `json:"senderName"`
	Effective   string `json:"effective"`
	Expires     string `json:"expires"`
}

// RawAlerts is the public alerts response.
type RawAlerts struct {
	Alerts []RawAlert `json:"alerts"`
}

// RawAstronomyDay is one entry of the astronomy response.
type RawAstronomyDay struct {
	Date        string   `json:"date"`
	SunriseTime string   `json:"sunriseTime"`
	SunsetTime  string   `json:"sunsetTime"`
	MoonPhase   *string  `json:"moonPhase"`
	CloudCover  *float64 `json:"cloudCover"`
}

// RawAstronomy is the astronomy response.
type RawAstronomy struct {
	Days []RawAstronomyDay `json:"days"`
}
