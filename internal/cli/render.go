package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/atmoscli/atmos/internal/weather"
)

// render writes a ViewResult as plain text. Charts and rich tables are
// deliberately out of scope; this is the minimum a terminal needs.
func render(w io.Writer, res *weather.ViewResult) error {
	fmt.Fprintf(w, "%s\n", res.Place.DisplayName)

	switch res.View {
	case weather.ViewCurrent:
		renderCurrent(w, res.Current)
	case weather.ViewForecast:
		renderSeries(w, res.Forecast)
	case weather.ViewHistory:
		renderSeries(w, res.History)
	case weather.ViewAlert:
		renderAlerts(w, res.Alerts)
	case weather.ViewStars:
		renderAstronomy(w, res.Astronomy)
	case weather.ViewGraph:
		renderGraph(w, res.Graph)
	case weather.ViewFind:
		renderFind(w, res.Best, res.Scores)
	}

	if res.Partial != nil {
		fmt.Fprintf(w, "\nnote: %s data unavailable (%s)\n", res.Partial.Part, res.Partial.Reason)
	}
	return nil
}

func renderCurrent(w io.Writer, snap *weather.Snapshot) {
	if snap == nil {
		fmt.Fprintln(w, "No current conditions.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Conditions\t%s\n", orDash(snap.Description))
	fmt.Fprintf(tw, "Temperature\t%s\n", fv(snap.Temperature, "°C"))
	fmt.Fprintf(tw, "Feels like\t%s\n", fv(snap.FeelsLike, "°C"))
	fmt.Fprintf(tw, "Humidity\t%s\n", fv(snap.Humidity, "%"))
	fmt.Fprintf(tw, "Wind\t%s %s\n", fv(snap.WindSpeed, " km/h"), fsv(snap.WindDirection))
	fmt.Fprintf(tw, "Precipitation\t%s\n", fv(snap.PrecipProbability, "%"))
	fmt.Fprintf(tw, "Visibility\t%s\n", fv(snap.Visibility, " m"))
	fmt.Fprintf(tw, "Pressure\t%s\n", fv(snap.Pressure, " hPa"))
	tw.Flush()
}

func renderSeries(w io.Writer, series weather.Series) {
	if len(series) == 0 {
		fmt.Fprintln(w, "No data.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Time\tTemp\tHigh/Low\tRain\tWind\tConditions")
	for _, snap := range series {
		highLow := "—"
		if snap.HighTemperature != nil || snap.LowTemperature != nil {
			highLow = fmt.Sprintf("%s/%s", fv(snap.HighTemperature, "°"), fv(snap.LowTemperature, "°"))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			snap.Timestamp.Format("Mon 02 Jan 15:04"),
			fv(snap.Temperature, "°C"),
			highLow,
			fv(snap.PrecipProbability, "%"),
			fv(snap.WindSpeed, " km/h"),
			orDash(snap.Description),
		)
	}
	tw.Flush()
}

func renderAlerts(w io.Writer, alerts []weather.AlertRecord) {
	if len(alerts) == 0 {
		fmt.Fprintln(w, "No active alerts.")
		return
	}
	for _, a := range alerts {
		fmt.Fprintf(w, "[%s] %s — %s\n", strings.ToUpper(a.Severity), a.Event, a.Headline)
		if !a.Effective.IsZero() {
			fmt.Fprintf(w, "  %s to %s\n",
				a.Effective.Format(time.RFC1123), a.Expires.Format(time.RFC1123))
		}
	}
}

func renderAstronomy(w io.Writer, rec *weather.AstronomyRecord) {
	if rec == nil {
		fmt.Fprintln(w, "No astronomy data.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Sunrise\t%s\n", ftime(rec.Sunrise))
	fmt.Fprintf(tw, "Sunset\t%s\n", ftime(rec.Sunset))
	fmt.Fprintf(tw, "Moon\t%s\n", fsv(rec.MoonPhase))
	if rec.Rating != "" {
		fmt.Fprintf(tw, "Stargazing\t%s (%s)\n", rec.Rating, fv(rec.StargazingScore, "/100"))
	} else {
		fmt.Fprintf(tw, "Stargazing\t—\n")
	}
	if len(rec.Constellations) > 0 {
		fmt.Fprintf(tw, "Look for\t%s\n", strings.Join(rec.Constellations, ", "))
	}
	tw.Flush()
}

func renderGraph(w io.Writer, graph *weather.GraphData) {
	if graph == nil {
		fmt.Fprintln(w, "No data.")
		return
	}
	if len(graph.History) > 0 {
		fmt.Fprintf(w, "History (%s):\n", graph.Metric)
		renderSeries(w, graph.History)
	}
	if len(graph.Forecast) > 0 {
		fmt.Fprintf(w, "Forecast (%s):\n", graph.Metric)
		renderSeries(w, graph.Forecast)
	}
}

func renderFind(w io.Writer, best *weather.ActivityScore, scores []weather.ActivityScore) {
	if best == nil {
		fmt.Fprintln(w, "No data.")
		return
	}
	fmt.Fprintf(w, "Best day for %s: %s (score %.0f)\n",
		best.Activity, best.Date.Format("Monday 02 Jan"), best.Score)
	if len(best.Reasons) > 0 {
		fmt.Fprintf(w, "  caveats: %s\n", strings.Join(best.Reasons, "; "))
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Date\tScore\tNotes")
	for _, s := range scores {
		fmt.Fprintf(tw, "%s\t%.0f\t%s\n",
			s.Date.Format("Mon 02 Jan"), s.Score, strings.Join(s.Reasons, "; "))
	}
	tw.Flush()
}

func fv(v *float64, unit string) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f%s", *v, unit)
}

func fsv(v *string) string {
	if v == nil {
		return "—"
	}
	return *v
}

func ftime(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("15:04 MST")
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
