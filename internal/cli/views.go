package cli

import (
	"github.com/spf13/cobra"

	"github.com/atmoscli/atmos/internal/weather"
)

func (a *App) currentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current <location>",
		Short: "Current conditions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runView(cmd, weather.ViewCurrent, joinToken(args), weather.Params{})
		},
	}
}

func (a *App) forecastCmd() *cobra.Command {
	var (
		days   int
		hourly bool
		hours  int
	)
	cmd := &cobra.Command{
		Use:   "forecast <location>",
		Short: "Daily or hourly forecast",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if days == 0 {
				days = a.cfg.ForecastDays
			}
			params := weather.Params{Days: days, Hourly: hourly, Hours: hours}
			if hourly && hours == 0 {
				params.Hours = days * 24
			}
			return a.runView(cmd, weather.ViewForecast, joinToken(args), params)
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "forecast window in days (max 10)")
	cmd.Flags().BoolVar(&hourly, "hourly", false, "hour-by-hour instead of day-by-day")
	cmd.Flags().IntVar(&hours, "hours", 0, "hourly window in hours (max 240)")
	return cmd
}

func (a *App) historyCmd() *cobra.Command {
	var hours int
	cmd := &cobra.Command{
		Use:   "history <location>",
		Short: "Recent observed conditions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runView(cmd, weather.ViewHistory, joinToken(args), weather.Params{Hours: hours})
		},
	}
	cmd.Flags().IntVar(&hours, "hours", 24, "how far back to look (clamped to 24)")
	return cmd
}

func (a *App) alertCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "alert <location>",
		Aliases: []string{"alerts"},
		Short:   "Active weather alerts",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runView(cmd, weather.ViewAlert, joinToken(args), weather.Params{})
		},
	}
}

func (a *App) starsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "stars <location>",
		Aliases: []string{"astronomy"},
		Short:   "Sunrise, sunset, moon phase and stargazing outlook",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runView(cmd, weather.ViewStars, joinToken(args), weather.Params{Days: 1})
		},
	}
}

func (a *App) graphCmd() *cobra.Command {
	var (
		metric string
		past   int
		future int
	)
	cmd := &cobra.Command{
		Use:   "graph <location>",
		Short: "Metric series around now",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runView(cmd, weather.ViewGraph, joinToken(args), weather.Params{
				Metric:      metric,
				PastHours:   past,
				FutureHours: future,
			})
		},
	}
	cmd.Flags().StringVar(&metric, "metric", "temp", "metric to plot: temp, precip, wind")
	cmd.Flags().IntVar(&past, "past", 12, "hours of history (max 24, 0 to skip)")
	cmd.Flags().IntVar(&future, "future", 24, "hours of forecast (max 240, 0 to skip)")
	return cmd
}

func (a *App) findCmd() *cobra.Command {
	var (
		activity string
		days     int
	)
	cmd := &cobra.Command{
		Use:   "find <location>",
		Short: "Best day for an activity within the forecast window",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if days == 0 {
				days = a.cfg.ForecastDays
			}
			return a.runView(cmd, weather.ViewFind, joinToken(args), weather.Params{
				Activity: activity,
				Days:     days,
			})
		},
	}
	cmd.Flags().StringVar(&activity, "activity", "hiking", "activity to plan for")
	cmd.Flags().IntVar(&days, "days", 0, "forecast window in days (max 10)")
	return cmd
}
