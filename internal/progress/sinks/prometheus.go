package sinks

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zperzan/scrape-wunderground/internal/progress"
)

// PrometheusSink exports scrape progress as Prometheus metrics. It owns all
// of its collectors and registers them on construction.
type PrometheusSink struct {
	runsStarted   prometheus.Counter
	runsCompleted *prometheus.CounterVec

	attempts *prometheus.CounterVec
	retries  *prometheus.CounterVec

	days        *prometheus.CounterVec
	rows        *prometheus.CounterVec
	dayDuration *prometheus.HistogramVec
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pws_runs_started_total",
			Help: "Total scrape runs started.",
		}),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pws_runs_completed_total",
			Help: "Total scrape runs completed, partitioned by result.",
		}, []string{"result"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pws_scrape_attempts_total",
			Help: "Single-date pipeline attempts, including retries.",
		}, []string{"station", "mode"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pws_scrape_retries_total",
			Help: "Pipeline attempts beyond the first for a date.",
		}, []string{"station", "mode"}),
		days: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pws_days_total",
			Help: "Per-date fetches, partitioned by outcome.",
		}, []string{"station", "mode", "outcome"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pws_observation_rows_total",
			Help: "Observation rows delivered.",
		}, []string{"station", "mode"}),
		dayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pws_day_duration_seconds",
			Help:    "Wall time per date, attempts and pauses included.",
			Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		}, []string{"station", "mode"}),
	}
	for _, collector := range []prometheus.Collector{
		s.runsStarted,
		s.runsCompleted,
		s.attempts,
		s.retries,
		s.days,
		s.rows,
		s.dayDuration,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the collectors from the batch. Safe for concurrent use.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		s.consumeEvent(evt)
	}
	return nil
}

func (s *PrometheusSink) consumeEvent(evt progress.Event) {
	station, mode := evt.Station, string(evt.Mode)
	switch evt.Stage {
	case progress.StageRunStart:
		s.runsStarted.Inc()
	case progress.StageRunDone:
		s.runsCompleted.WithLabelValues("success").Inc()
	case progress.StageRunError:
		s.runsCompleted.WithLabelValues("error").Inc()
	case progress.StageDayStart:
		s.attempts.WithLabelValues(station, mode).Inc()
	case progress.StageAttemptRetry:
		s.attempts.WithLabelValues(station, mode).Inc()
		s.retries.WithLabelValues(station, mode).Inc()
	case progress.StageDayDone:
		s.days.WithLabelValues(station, mode, "success").Inc()
		if evt.Rows > 0 {
			s.rows.WithLabelValues(station, mode).Add(float64(evt.Rows))
		}
		s.observeDay(evt)
	case progress.StageDayEmpty:
		s.days.WithLabelValues(station, mode, "empty").Inc()
		s.observeDay(evt)
	}
}

func (s *PrometheusSink) observeDay(evt progress.Event) {
	if evt.Dur > 0 {
		s.dayDuration.WithLabelValues(evt.Station, string(evt.Mode)).Observe(evt.Dur.Seconds())
	}
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
