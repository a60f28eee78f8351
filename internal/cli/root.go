// Package cli defines the atmos command tree and its plain-text output.
package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atmoscli/atmos/internal/config"
	"github.com/atmoscli/atmos/internal/geocode"
	"github.com/atmoscli/atmos/internal/places"
	"github.com/atmoscli/atmos/internal/weather"
	"github.com/atmoscli/atmos/internal/weather/providers"
)

// Version is stamped at build time.
var Version = "dev"

// App bundles the wired dependencies the commands share.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *places.Store
	orch   *weather.Orchestrator
}

// Execute builds the command tree, wires dependencies, and runs it.
func Execute() error {
	app := &App{}

	var verbose bool

	root := &cobra.Command{
		Use:   "atmos [location]",
		Short: "Weather from your terminal",
		Long: "Atmos fetches current conditions, forecasts, history, alerts and\n" +
			"astronomy for any place, and keeps a registry of your saved places.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare `atmos` shows the hourly outlook for the saved "Home"
			// place; `atmos <location>` shows current conditions there.
			if len(args) == 0 {
				return app.runView(cmd, weather.ViewForecast, "Home", weather.Params{
					Hourly: true,
					Hours:  app.cfg.ForecastDays * 24,
				})
			}
			return app.runView(cmd, weather.ViewCurrent, joinToken(args), weather.Params{})
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		app.currentCmd(),
		app.forecastCmd(),
		app.historyCmd(),
		app.alertCmd(),
		app.starsCmd(),
		app.graphCmd(),
		app.findCmd(),
		app.placesCmd(),
		app.watchCmd(),
		app.serveCmd(),
	)

	return root.Execute()
}

func (a *App) init(verbose bool) error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = config.NewLogger(verbose)

	store, err := places.Open(cfg.PlacesFile)
	if err != nil {
		return err
	}
	a.store = store

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	resolver := geocode.NewResolver(httpClient, store, cfg.GoogleMapsAPIKey, a.logger)
	gateway := providers.NewGoogleWeather(httpClient, cfg.GoogleMapsAPIKey, a.logger)
	a.orch = weather.NewOrchestrator(resolver, gateway, cfg.GoogleMapsAPIKey, a.logger)
	return nil
}

// runView executes a view and renders the outcome. A no-data answer is
// reported as such and still exits successfully.
func (a *App) runView(cmd *cobra.Command, view weather.View, token string, params weather.Params) error {
	result, err := a.orch.Execute(cmd.Context(), view, token, params)
	if err != nil {
		if weather.IsKind(err, weather.KindNoData) {
			fmt.Fprintf(cmd.OutOrStdout(), "No weather data available for %s.\n", token)
			return nil
		}
		return err
	}
	return render(cmd.OutOrStdout(), result)
}

func joinToken(args []string) string {
	return strings.Join(args, " ")
}

// Main is the entrypoint body: run the CLI and map failures to exit codes.
func Main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if weather.IsKind(err, weather.KindConfiguration) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
