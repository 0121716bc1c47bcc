// Package cmd defines and implements the CLI commands for the
// scrape-wunderground executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zperzan/scrape-wunderground/internal/wunderground"
)

var cfgFile string

// appKeyType is the key for storing the app in the context.
type appKeyType string

const appKey appKeyType = "app"

// newApp is the application factory. It's a variable so tests can replace
// it with one that wires fakes.
var newApp = buildApp

// resolveApp retrieves the app that PersistentPreRunE stored on the
// command context.
func resolveApp(ctx context.Context) (*app, error) {
	a, ok := ctx.Value(appKey).(*app)
	if !ok || a == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return a, nil
}

// newRootCmd creates and configures the root command. The root command
// itself performs a single-date scrape; range and watch are subcommands.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape-wunderground STATION DATE FREQUENCY",
		Short: "Scrape personal weather station history from Weather Underground",
		Long: `scrape-wunderground renders a Weather Underground personal weather
station dashboard in a headless browser, extracts the observation table,
and writes it as CSV. FREQUENCY is "5min" for the full observation log or
"daily" for one summary row per day.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,

		// Runs after flag parsing and before the subcommand's RunE: the
		// one place to build and inject the application services.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cfgFile)
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a, ok := cmd.Context().Value(appKey).(*app); ok && a != nil {
				a.close()
			}
		},

		RunE: runScrapeCommand,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./scrape-wunderground.yaml)")

	cmd.AddCommand(newRangeCmd())
	cmd.AddCommand(newWatchCmd())

	return cmd
}

func runScrapeCommand(cmd *cobra.Command, args []string) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	station := args[0]
	date, err := wunderground.ParseDate(args[1])
	if err != nil {
		return err
	}
	freq, err := wunderground.ParseFrequency(args[2])
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("%s_%s.csv", station, date.Format(wunderground.DateLayout))
	return a.runRange(cmd.Context(), station, date, date, freq, filename)
}

// Execute is the main entry point. It installs signal-driven cancellation
// so Ctrl-C stops the current attempt and lets teardown run.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
