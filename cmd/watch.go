package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zperzan/scrape-wunderground/internal/schedule"
	"github.com/zperzan/scrape-wunderground/internal/wunderground"
)

// newWatchCmd creates and configures the 'watch' subcommand, which runs
// until interrupted and scrapes yesterday's observations once per day at
// the configured wall-clock time.
func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch STATION FREQUENCY",
		Short: "Scrape yesterday's observations on a daily schedule",
		Long: `Runs until interrupted. Every day at the configured time (watch.at,
in watch.timezone) it scrapes the previous calendar date for the station
and writes {STATION}_{DATE}.csv to the output directory. A failed day is
logged and the schedule keeps going.`,
		Args: cobra.ExactArgs(2),
		RunE: runWatchCommand,
	}
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	station := args[0]
	freq, err := wunderground.ParseFrequency(args[1])
	if err != nil {
		return err
	}

	watcher, err := schedule.New(a.cfg.Watch.At, a.cfg.Watch.Timezone, a.clock, a.logger.Named("watch"))
	if err != nil {
		return err
	}

	err = watcher.Run(cmd.Context(), func(ctx context.Context, date time.Time) error {
		filename := fmt.Sprintf("%s_%s.csv", station, date.Format(wunderground.DateLayout))
		return a.runRange(ctx, station, date, date, freq, filename)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
