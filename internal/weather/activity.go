package weather

import (
	"fmt"
	"strings"
)

// Activity names and their accepted aliases.
var activityAliases = map[string]string{
	"hiking": "hiking", "hike": "hiking", "walk": "hiking", "trek": "hiking",
	"bbq": "bbq", "barbecue": "bbq", "grill": "bbq", "picnic": "bbq",
	"stargazing": "stargazing", "stars": "stargazing", "astronomy": "stargazing",
	"beach": "beach", "swim": "beach", "ocean": "beach",
	"running": "running", "jogging": "running", "run": "running",
}

// ResolveActivity canonicalizes an activity name or alias.
func ResolveActivity(name string) (string, bool) {
	canonical, ok := activityAliases[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// Activities lists the canonical activity names.
func Activities() []string {
	return []string{"bbq", "beach", "hiking", "running", "stargazing"}
}

// A scoreRule is one row of an activity's weight table: which field it reads,
// the threshold direction, and the penalty applied when the threshold trips.
// A rule whose field is unknown for a day simply does not fire; missing data
// neither penalizes nor rewards.
type scoreRule struct {
	field     string // see fieldValue
	above     bool   // penalize when value > threshold (otherwise <)
	threshold float64
	penalty   float64
	label     string
	unit      string

	// stacks exempts the rule from the one-rule-per-field guard: it applies
	// on top of whatever severity tier already fired for the field.
	stacks bool
}

// Shared rain rules: heavy rain chance ruins nearly everything.
var rainRules = []scoreRule{
	{field: "precip", above: true, threshold: 70, penalty: 80, label: "high rain chance", unit: "%"},
	{field: "precip", above: true, threshold: 30, penalty: 40, label: "chance of rain", unit: "%"},
}

var activityRules = map[string][]scoreRule{
	"hiking": append(append([]scoreRule{}, rainRules...),
		scoreRule{field: "high_temp", above: true, threshold: 32, penalty: 30, label: "hot", unit: "°C"},
		scoreRule{field: "high_temp", above: false, threshold: 4, penalty: 20, label: "cold", unit: "°C"},
		scoreRule{field: "wind", above: true, threshold: 32, penalty: 30, label: "windy", unit: " km/h"},
	),
	"bbq": append(append([]scoreRule{}, rainRules...),
		scoreRule{field: "precip", above: true, threshold: 20, penalty: 20, label: "possible rain", unit: "%", stacks: true},
		scoreRule{field: "high_temp", above: false, threshold: 15, penalty: 30, label: "too cold", unit: "°C"},
		scoreRule{field: "wind", above: true, threshold: 24, penalty: 20, label: "windy", unit: " km/h"},
	),
	"beach": append(append([]scoreRule{}, rainRules...),
		scoreRule{field: "high_temp", above: false, threshold: 24, penalty: 50, label: "too cold", unit: "°C"},
		scoreRule{field: "cloud", above: true, threshold: 60, penalty: 20, label: "no sun", unit: "%"},
	),
	"running": append(append([]scoreRule{}, rainRules...),
		scoreRule{field: "high_temp", above: true, threshold: 28, penalty: 30, label: "hot", unit: "°C"},
		scoreRule{field: "high_temp", above: false, threshold: 0, penalty: 30, label: "freezing", unit: "°C"},
	),
	// Stargazing cares about the sky, not the rain gauge: cloud cover and
	// moon brightness are the whole table.
	"stargazing": {
		{field: "cloud", above: true, threshold: 50, penalty: 80, label: "cloudy", unit: "%"},
		{field: "cloud", above: true, threshold: 20, penalty: 30, label: "some clouds", unit: "%"},
		{field: "moon", above: true, threshold: 0, penalty: 40, label: "bright moon"},
	},
}

// fieldValue extracts the rule's input from a day. Returns nil when the
// provider did not report the field.
func fieldValue(day Snapshot, field string) *float64 {
	switch field {
	case "high_temp":
		if day.HighTemperature != nil {
			return day.HighTemperature
		}
		return day.Temperature
	case "precip":
		return day.PrecipProbability
	case "wind":
		return day.WindSpeed
	case "cloud":
		return day.CloudCover
	case "moon":
		if brightMoon(day.MoonPhase) {
			return Float(1)
		}
		return nil
	default:
		return nil
	}
}

// ScoreDay applies an activity's weight table to one forecast day. Scores
// start at 100 and each tripped rule subtracts its penalty; the result is
// clamped to [0,100]. Deterministic for a given day and activity.
func ScoreDay(day Snapshot, activity string) ActivityScore {
	result := ActivityScore{
		Date:     day.Timestamp,
		Activity: activity,
		Score:    100,
	}

	rules := activityRules[activity]
	fired := make(map[string]bool, len(rules))

	for _, rule := range rules {
		// At most one rule fires per field; tables are ordered most severe
		// first, so the worst applicable penalty wins. Stacking rules are
		// exempt and add to whatever tier already fired.
		if !rule.stacks && fired[rule.field] {
			continue
		}
		v := fieldValue(day, rule.field)
		if v == nil {
			continue
		}
		tripped := (rule.above && *v > rule.threshold) || (!rule.above && *v < rule.threshold)
		if !tripped {
			continue
		}
		if !rule.stacks {
			fired[rule.field] = true
		}

		result.Score -= rule.penalty
		if rule.field == "moon" && day.MoonPhase != nil {
			result.Reasons = append(result.Reasons, fmt.Sprintf("%s (%s)", rule.label, *day.MoonPhase))
		} else {
			result.Reasons = append(result.Reasons, fmt.Sprintf("%s (%.0f%s)", rule.label, *v, rule.unit))
		}
	}

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}
	return result
}

// BestDay scores every day of a forecast series for an activity and picks
// the winner. Ties break toward the earliest date, so scanning the ascending
// series and replacing only on a strictly higher score is sufficient.
func BestDay(series Series, activity string) (ActivityScore, []ActivityScore, error) {
	canonical, ok := ResolveActivity(activity)
	if !ok {
		return ActivityScore{}, nil, Failf(KindOrchestration, "score activity",
			"unknown activity %q (known: %s)", activity, strings.Join(Activities(), ", "))
	}
	if len(series) == 0 {
		return ActivityScore{}, nil, Failf(KindNoData, "score activity", "empty forecast")
	}

	scores := make([]ActivityScore, 0, len(series))
	best := 0
	for i, day := range series {
		score := ScoreDay(day, canonical)
		scores = append(scores, score)
		if score.Score > scores[best].Score {
			best = i
		}
	}
	return scores[best], scores, nil
}
