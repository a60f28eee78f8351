package weather

import (
	"sort"
	"strings"
	"time"
)

// Time layouts the provider has been observed to use. Everything normalizes
// to UTC regardless of the native encoding.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			u := ts.UTC()
			return &u
		}
	}
	return nil
}

// celsius converts a raw measurement to degrees Celsius, honoring the unit
// tag. A missing value stays missing.
func celsius(m *RawMeasurement) *float64 {
	if m == nil || m.Value == nil {
		return nil
	}
	v := *m.Value
	if strings.EqualFold(m.Units, "FAHRENHEIT") {
		v = (v - 32) * 5 / 9
	}
	return &v
}

// classifyCondition buckets a free-text condition description.
func classifyCondition(text string) Condition {
	switch {
	case text == "":
		return ConditionUnknown
	case hasAny(text, "rain", "shower", "drizzle"):
		return ConditionRain
	case hasAny(text, "snow", "sleet", "blizzard"):
		return ConditionSnow
	case hasAny(text, "thunder", "storm"):
		return ConditionStorm
	case hasAny(text, "fog", "mist", "haze"):
		return ConditionMist
	case hasAny(text, "cloud", "overcast"):
		return ConditionCloudy
	case hasAny(text, "sunny", "clear"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}

// hasAny reports whether s contains any of the substrings, case-insensitively.
func hasAny(s string, subs ...string) bool {
	ls := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(ls, sub) {
			return true
		}
	}
	return false
}

func snapshotFromConditions(c RawConditions) Snapshot {
	snap := Snapshot{
		Temperature: celsius(c.Temperature),
		FeelsLike:   celsius(c.FeelsLikeTemperature),
		Humidity:    c.Humidity,
		UVIndex:     c.UVIndex,
		Visibility:  c.Visibility,
		Pressure:    c.Pressure,
		CloudCover:  c.CloudCover,
		Description: c.ConditionDescription,
		Condition:   classifyCondition(c.ConditionDescription),
	}
	if ts := parseTime(c.Time); ts != nil {
		snap.Timestamp = *ts
	}
	if c.Wind != nil {
		snap.WindSpeed = c.Wind.Speed
		snap.WindGust = c.Wind.Gust
		snap.WindDirection = c.Wind.Direction
	}
	if c.Precipitation != nil {
		snap.PrecipProbability = c.Precipitation.Probability
		snap.PrecipRate = c.Precipitation.Rate
	}
	return snap
}

// NormalizeCurrent maps a currentConditions payload to a single snapshot.
func NormalizeCurrent(raw *RawCurrent) (*Snapshot, error) {
	if raw == nil || raw.Conditions() == nil {
		return nil, Failf(KindOrchestration, "normalize current", "payload has no conditions object")
	}
	snap := snapshotFromConditions(*raw.Conditions())
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now().UTC()
	}
	return &snap, nil
}

// NormalizeDaily maps a daily forecast payload to an ascending series, one
// snapshot per day stamped at midnight UTC.
func NormalizeDaily(raw *RawDailyForecast) (Series, error) {
	if raw == nil {
		return nil, Failf(KindOrchestration, "normalize daily", "nil payload")
	}
	series := make(Series, 0, len(raw.ForecastDays))
	for _, day := range raw.ForecastDays {
		ts := parseTime(day.DisplayDate)
		if ts == nil {
			continue
		}
		snap := Snapshot{
			Timestamp:         ts.Truncate(24 * time.Hour),
			HighTemperature:   celsius(day.HighTemperature),
			LowTemperature:    celsius(day.LowTemperature),
			PrecipProbability: day.PrecipitationProbability,
			CloudCover:        day.CloudCover,
			MoonPhase:         day.MoonPhase,
			Description:       day.ConditionDescription,
			Condition:         classifyCondition(day.ConditionDescription),
		}
		if day.MaxWind != nil {
			snap.WindSpeed = day.MaxWind.Speed
			snap.WindGust = day.MaxWind.Gust
			snap.WindDirection = day.MaxWind.Direction
		}
		series = append(series, snap)
	}
	return NormalizeSeries(series), nil
}

// NormalizeHourly maps an hourly forecast payload to an ascending series.
func NormalizeHourly(raw *RawHourlyForecast) (Series, error) {
	if raw == nil {
		return nil, Failf(KindOrchestration, "normalize hourly", "nil payload")
	}
	return normalizeHours(raw.ForecastHours), nil
}

// NormalizeHistory maps a history payload to an ascending series.
func NormalizeHistory(raw *RawHistory) (Series, error) {
	if raw == nil {
		return nil, Failf(KindOrchestration, "normalize history", "nil payload")
	}
	return normalizeHours(raw.HistoryHours), nil
}

func normalizeHours(hours []RawConditions) Series {
	series := make(Series, 0, len(hours))
	for _, h := range hours {
		snap := snapshotFromConditions(h)
		if snap.Timestamp.IsZero() {
			// An entry without a timestamp cannot participate in an ordered
			// series.
			continue
		}
		series = append(series, snap)
	}
	return NormalizeSeries(series)
}

// NormalizeSeries enforces the series invariant: ascending timestamps with no
// duplicates, last-seen wins on a duplicate timestamp. Idempotent.
func NormalizeSeries(series Series) Series {
	if len(series) == 0 {
		return Series{}
	}

	byTime := make(map[time.Time]Snapshot, len(series))
	for _, snap := range series {
		byTime[snap.Timestamp] = snap
	}

	out := make(Series, 0, len(byTime))
	for _, snap := range byTime {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// NormalizeAlerts maps an alerts payload. No alerts is a valid empty answer,
// never an error.
func NormalizeAlerts(raw *RawAlerts) []AlertRecord {
	if raw == nil {
		return []AlertRecord{}
	}
	records := make([]AlertRecord, 0, len(raw.Alerts))
	for _, a := range raw.Alerts {
		rec := AlertRecord{
			Kind:        alertKind(a.Event, a.Headline),
			Event:       a.Event,
			Severity:    a.Severity,
			Headline:    a.Headline,
			Description: a.Description,
			Source:      a.SenderName,
		}
		if ts := parseTime(a.Effective); ts != nil {
			rec.Effective = *ts
		}
		if ts := parseTime(a.Expires); ts != nil {
			rec.Expires = *ts
		}
		records = append(records, rec)
	}
	return records
}

func alertKind(event, headline string) AlertKind {
	text := event + " " + headline
	switch {
	case hasAny(text, "tornado", "funnel"):
		return AlertTornado
	case hasAny(text, "flood", "surge"):
		return AlertFlood
	case hasAny(text, "winter", "blizzard", "ice storm", "snow"):
		return AlertWinterStorm
	default:
		return AlertOther
	}
}

// NormalizeAstronomy maps an astronomy payload to a record for its first day.
func NormalizeAstronomy(raw *RawAstronomy) (*AstronomyRecord, error) {
	if raw == nil || len(raw.Days) == 0 {
		return nil, Failf(KindNoData, "normalize astronomy", "no astronomy data")
	}

	day := raw.Days[0]
	rec := AstronomyRecord{
		Sunrise:    parseTime(day.SunriseTime),
		Sunset:     parseTime(day.SunsetTime),
		MoonPhase:  day.MoonPhase,
		CloudCover: day.CloudCover,
	}
	if ts := parseTime(day.Date); ts != nil {
		rec.Date = *ts
	} else if rec.Sunrise != nil {
		rec.Date = rec.Sunrise.Truncate(24 * time.Hour)
	}

	rec.StargazingScore, rec.Rating = stargazingQuality(day.CloudCover, day.MoonPhase)
	rec.Constellations = seasonalConstellations(rec.Date)
	return &rec, nil
}

// stargazingQuality rates a night sky from cloud cover and moon phase. A
// missing cloud cover leaves the score unknown rather than guessing.
func stargazingQuality(cloudCover *float64, moonPhase *string) (*float64, string) {
	if cloudCover == nil {
		return nil, ""
	}

	cloud := *cloudCover
	score := 100.0
	rating := "Poor"
	switch {
	case cloud < 20:
		rating = "Excellent"
	case cloud < 50:
		rating = "Good"
		score -= 30
	case cloud < 80:
		rating = "Fair"
		score -= 60
	default:
		score -= 90
	}

	if brightMoon(moonPhase) {
		score -= 10
		if rating == "Excellent" {
			// Light pollution from a bright moon caps the night at Good.
			rating = "Good"
		}
	}

	if score < 0 {
		score = 0
	}
	return &score, rating
}

func brightMoon(phase *string) bool {
	return phase != nil && hasAny(*phase, "full", "gibbous")
}

// seasonalConstellations returns the prominent northern-hemisphere
// constellations for the record's month.
func seasonalConstellations(date time.Time) []string {
	if date.IsZero() {
		date = time.Now().UTC()
	}
	switch date.Month() {
	case time.December, time.January, time.February:
		return []string{"Orion", "Taurus", "Gemini", "Canis Major"}
	case time.March, time.April, time.May:
		return []string{"Leo", "Virgo", "Ursa Major"}
	case time.June, time.July, time.August:
		return []string{"Scorpius", "Cygnus", "Lyra", "Aquila"}
	default:
		return []string{"Pegasus", "Andromeda", "Cassiopeia"}
	}
}
