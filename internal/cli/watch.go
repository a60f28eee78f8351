package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/atmoscli/atmos/internal/scheduler"
	"github.com/atmoscli/atmos/internal/weather"
)

func (a *App) watchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch <view> <location>",
		Short: "Re-run a view on an interval",
		Long:  "Re-runs one of: current, forecast, history, alert, stars. Stop with Ctrl-C.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := weather.View(args[0])
			switch view {
			case weather.ViewCurrent, weather.ViewForecast, weather.ViewHistory, weather.ViewAlert, weather.ViewStars:
			default:
				return fmt.Errorf("cannot watch view %q", args[0])
			}
			token := joinToken(args[1:])

			sched := scheduler.New(interval, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "--- %s ---\n", time.Now().UTC().Format(time.RFC3339))
				if err := a.runView(cmd, view, token, weather.Params{Days: a.cfg.ForecastDays, Hours: 24}); err != nil {
					a.logger.Error("watch refresh failed", "view", view, "error", err)
				}
			})
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 10*time.Minute, "refresh interval")
	return cmd
}
