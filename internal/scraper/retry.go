package scraper

import (
	"context"
	"time"
)

// Outcome is the terminal state of a per-date fetch loop.
type Outcome string

// Terminal states. The loop always ends in exactly one of them.
const (
	// OutcomeSuccess means one attempt produced a table.
	OutcomeSuccess Outcome = "success"
	// OutcomeExhausted means every attempt failed (or the context was
	// cancelled) and the caller received the empty table.
	OutcomeExhausted Outcome = "exhausted"
)

// Report describes how a per-date fetch ended. The table contract stays
// soft (empty table on exhaustion); the Report carries the distinction
// between "no data" and "every attempt failed" out-of-band.
type Report struct {
	Outcome  Outcome
	Attempts int
	LastErr  error
}

// RangeReport aggregates per-date outcomes across a range fetch.
type RangeReport struct {
	Days      int
	EmptyDays int
}

// pauseController abstracts the inter-attempt wait so tests can skip it.
type pauseController interface {
	Pause(ctx context.Context, delay time.Duration)
}

// timerPauseController blocks for the delay or until the context ends,
// whichever comes first.
type timerPauseController struct{}

func (timerPauseController) Pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
