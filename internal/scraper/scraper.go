// Package scraper runs the render, extract, normalize pipeline: once per
// attempt, attempts per date, dates per range.
package scraper

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zperzan/scrape-wunderground/internal/archive"
	"github.com/zperzan/scrape-wunderground/internal/logging"
	"github.com/zperzan/scrape-wunderground/internal/progress"
	"github.com/zperzan/scrape-wunderground/internal/renderer"
	"github.com/zperzan/scrape-wunderground/internal/wunderground"
)

// Config controls one Scraper.
type Config struct {
	// BaseURL is the dashboard origin.
	BaseURL string
	// MaxAttempts bounds the per-date fetch loop.
	MaxAttempts int
	// Wait is the pause between failed attempts.
	Wait time.Duration
	// RunID tags progress events and logs; a Scraper serves one run.
	RunID uuid.UUID
}

// Scraper fetches observation tables for single dates and date ranges. The
// pipeline is strictly sequential: one browser session at a time, one date
// at a time.
type Scraper struct {
	cfg       Config
	renderer  renderer.Renderer
	extractor *wunderground.Extractor
	archive   archive.Store
	emitter   progress.Emitter
	pause     pauseController
	logger    *zap.Logger
}

// New builds a Scraper. The archive store and emitter may be nil; both are
// observability concerns the pipeline runs without.
func New(
	cfg Config,
	r renderer.Renderer,
	extractor *wunderground.Extractor,
	store archive.Store,
	emitter progress.Emitter,
	logger *zap.Logger,
) *Scraper {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 4
	}
	if cfg.Wait <= 0 {
		cfg.Wait = 5 * time.Second
	}
	if emitter == nil {
		emitter = (*progress.Hub)(nil)
	}
	return &Scraper{
		cfg:       cfg,
		renderer:  r,
		extractor: extractor,
		archive:   store,
		emitter:   emitter,
		pause:     timerPauseController{},
		logger:    logging.OrNop(logger).With(zap.String("run_id", cfg.RunID.String())),
	}
}

// FetchDay runs the single-date pipeline up to MaxAttempts times, pausing
// Wait between failures and stopping on the first success. Exhaustion
// returns the empty table, never an error: long unattended runs prefer a
// gap over an abort, and the Report says which it was.
func (s *Scraper) FetchDay(
	ctx context.Context,
	station string,
	date time.Time,
	freq wunderground.Frequency,
) (*wunderground.Table, Report) {
	req := wunderground.Request{Station: station, Date: date, Freq: freq}
	day := date.Format(wunderground.DateLayout)
	start := time.Now()

	var (
		attempts int
		lastErr  error
	)
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		attempts = attempt
		if attempt == 1 {
			s.emitDay(progress.StageDayStart, req, attempt, 0, 0, "")
		} else {
			s.emitDay(progress.StageAttemptRetry, req, attempt, 0, 0, lastErr.Error())
		}

		table, err := s.fetchOnce(ctx, req)
		if err == nil {
			dur := time.Since(start)
			s.logger.Info("day fetched",
				zap.String("station", station),
				zap.String("mode", string(freq)),
				zap.String("date", day),
				zap.Int("attempt", attempt),
				zap.Int("rows", table.Len()),
				zap.Duration("dur", dur),
			)
			s.emitDay(progress.StageDayDone, req, attempt, table.Len(), dur, "")
			return table, Report{Outcome: OutcomeSuccess, Attempts: attempt}
		}

		lastErr = err
		s.logger.Warn("fetch attempt failed",
			zap.String("station", station),
			zap.String("mode", string(freq)),
			zap.String("date", day),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < s.cfg.MaxAttempts {
			s.pause.Pause(ctx, s.cfg.Wait)
		}
	}

	dur := time.Since(start)
	note := ""
	if lastErr != nil {
		note = lastErr.Error()
	}
	s.logger.Warn("day exhausted, returning empty table",
		zap.String("station", station),
		zap.String("mode", string(freq)),
		zap.String("date", day),
		zap.Int("attempts", attempts),
		zap.Error(lastErr),
	)
	s.emitDay(progress.StageDayEmpty, req, attempts, 0, dur, note)
	return &wunderground.Table{}, Report{Outcome: OutcomeExhausted, Attempts: attempts, LastErr: lastErr}
}

// FetchRange expands [start, end] inclusive into calendar dates, fetches
// each in order, and concatenates the results. An inverted range is a
// RangeError before anything is fetched. Dates that exhaust their attempts
// contribute zero rows; the RangeReport counts them.
func (s *Scraper) FetchRange(
	ctx context.Context,
	station string,
	start, end time.Time,
	freq wunderground.Frequency,
) (*wunderground.Table, RangeReport, error) {
	if end.Before(start) {
		return nil, RangeReport{}, &wunderground.RangeError{Start: start, End: end}
	}

	out := &wunderground.Table{}
	var report RangeReport
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		table, dayReport := s.FetchDay(ctx, station, date, freq)
		report.Days++
		if dayReport.Outcome == OutcomeExhausted {
			report.EmptyDays++
		}
		if err := out.Append(table); err != nil {
			return nil, report, err
		}
	}
	return out, report, nil
}

// fetchOnce is one pipeline pass: render, archive, extract, normalize.
func (s *Scraper) fetchOnce(ctx context.Context, req wunderground.Request) (*wunderground.Table, error) {
	url := req.URL(s.cfg.BaseURL)
	html, err := s.renderer.Render(ctx, url)
	if err != nil {
		return nil, err
	}

	// Archive before extracting so a page that defeats the selectors is
	// still available for post-mortem.
	s.archivePage(ctx, req, html)

	timestamps, values, err := s.extractor.Extract(html)
	if err != nil {
		return nil, err
	}
	return wunderground.Normalize(timestamps, values, req.Date, req.Freq)
}

func (s *Scraper) archivePage(ctx context.Context, req wunderground.Request, html string) {
	if s.archive == nil {
		return
	}
	sum := sha256.Sum256([]byte(html))
	uri, err := s.archive.Put(ctx, archive.PageKey(req), "text/html; charset=utf-8", []byte(html))
	if err != nil {
		s.logger.Warn("archive put failed",
			zap.String("key", archive.PageKey(req)),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("page archived",
		zap.String("uri", uri),
		zap.String("sha256", hex.EncodeToString(sum[:])),
	)
}

func (s *Scraper) emitDay(
	stage progress.Stage,
	req wunderground.Request,
	attempt, rows int,
	dur time.Duration,
	note string,
) {
	s.emitter.Emit(progress.Event{
		RunID:   progress.UUIDToBytes(s.cfg.RunID),
		TS:      time.Now().UTC(),
		Stage:   stage,
		Station: req.Station,
		Mode:    req.Freq,
		Date:    req.Date,
		Attempt: attempt,
		Rows:    rows,
		Dur:     dur,
		Note:    note,
	})
}
