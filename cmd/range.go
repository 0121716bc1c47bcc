package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zperzan/scrape-wunderground/internal/wunderground"
)

// newRangeCmd creates and configures the 'range' subcommand, which scrapes
// every date in an inclusive interval and concatenates the results into a
// single CSV file.
func newRangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "range STATION START END FREQUENCY",
		Short: "Scrape an inclusive date range into one CSV",
		Long: `Scrapes every calendar date from START through END inclusive, in order,
and concatenates the per-date tables into a single CSV file. Dates that
stay empty after all retry attempts contribute no rows; the run keeps
going and reports how many days came back empty.`,
		Args: cobra.ExactArgs(4),
		RunE: runRangeCommand,
	}
}

func runRangeCommand(cmd *cobra.Command, args []string) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	station := args[0]
	start, err := wunderground.ParseDate(args[1])
	if err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	end, err := wunderground.ParseDate(args[2])
	if err != nil {
		return fmt.Errorf("end date: %w", err)
	}
	freq, err := wunderground.ParseFrequency(args[3])
	if err != nil {
		return err
	}
	if end.Before(start) {
		return &wunderground.RangeError{Start: start, End: end}
	}

	filename := fmt.Sprintf("%s_%s_%s.csv",
		station,
		start.Format(wunderground.DateLayout),
		end.Format(wunderground.DateLayout))
	return a.runRange(cmd.Context(), station, start, end, freq, filename)
}
