// Package schedule runs the daily watch loop: scrape yesterday's
// observations for a station, every day at a configured wall-clock time.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/zperzan/scrape-wunderground/internal/clock"
	"github.com/zperzan/scrape-wunderground/internal/logging"
)

// Job is the work the watcher performs once per day; date is yesterday in
// the schedule's timezone.
type Job func(ctx context.Context, date time.Time) error

// Watcher schedules a daily Job.
type Watcher struct {
	scheduler *gocron.Scheduler
	clock     clock.Clock
	location  *time.Location
	at        string
	logger    *zap.Logger
}

// New builds a Watcher firing at the "HH:MM" wall-clock time in tz.
func New(at, tz string, clk clock.Clock, logger *zap.Logger) (*Watcher, error) {
	if _, err := time.Parse("15:04", at); err != nil {
		return nil, fmt.Errorf("watch time must be HH:MM, got %q", at)
	}
	location, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load watch timezone: %w", err)
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Watcher{
		scheduler: gocron.NewScheduler(location),
		clock:     clk,
		location:  location,
		at:        at,
		logger:    logging.OrNop(logger),
	}, nil
}

// Run schedules the job and blocks until ctx is cancelled, then stops the
// scheduler. Job failures are logged and the schedule keeps going; a watch
// is a long unattended loop and one bad day must not end it.
func (w *Watcher) Run(ctx context.Context, job Job) error {
	_, err := w.scheduler.Every(1).Day().At(w.at).Do(func() {
		date := w.Yesterday()
		w.logger.Info("watch tick", zap.String("date", date.Format("2006-01-02")))
		if err := job(ctx, date); err != nil {
			w.logger.Error("watch job failed", zap.String("date", date.Format("2006-01-02")), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule watch job: %w", err)
	}

	w.scheduler.StartAsync()
	w.logger.Info("watch scheduled",
		zap.String("at", w.at),
		zap.String("timezone", w.location.String()),
	)

	<-ctx.Done()
	w.scheduler.Stop()
	return nil
}

// Yesterday returns the previous calendar date in the watch timezone,
// truncated to midnight UTC to match the scrape request form.
func (w *Watcher) Yesterday() time.Time {
	now := w.clock.Now().In(w.location)
	y, m, d := now.AddDate(0, 0, -1).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
