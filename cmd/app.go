package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/zperzan/scrape-wunderground/internal/archive"
	archivegcs "github.com/zperzan/scrape-wunderground/internal/archive/gcs"
	archivelocal "github.com/zperzan/scrape-wunderground/internal/archive/local"
	archivememory "github.com/zperzan/scrape-wunderground/internal/archive/memory"
	"github.com/zperzan/scrape-wunderground/internal/clock"
	"github.com/zperzan/scrape-wunderground/internal/config"
	"github.com/zperzan/scrape-wunderground/internal/id"
	"github.com/zperzan/scrape-wunderground/internal/logging"
	"github.com/zperzan/scrape-wunderground/internal/notify"
	notifypubsub "github.com/zperzan/scrape-wunderground/internal/notify/pubsub"
	"github.com/zperzan/scrape-wunderground/internal/ops"
	"github.com/zperzan/scrape-wunderground/internal/progress"
	"github.com/zperzan/scrape-wunderground/internal/progress/sinks"
	"github.com/zperzan/scrape-wunderground/internal/renderer"
	"github.com/zperzan/scrape-wunderground/internal/scraper"
	storepostgres "github.com/zperzan/scrape-wunderground/internal/store/postgres"
	"github.com/zperzan/scrape-wunderground/internal/wunderground"
)

// app holds the services a command needs, built once per invocation from
// configuration.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	clock    clock.Clock
	idGen    id.Generator
	renderer renderer.Renderer
	archive  archive.Store
	store    *storepostgres.ObservationStore
	notifier notify.Publisher
	notifyDn func() // closes the notifier transport, if any
	registry *prometheus.Registry
	hub      *progress.Hub
	ops      *ops.Server
}

func buildApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		clock:    clock.NewSystem(),
		idGen:    id.NewUUIDv7(),
		registry: prometheus.NewRegistry(),
	}

	if err := a.buildRenderer(); err != nil {
		return nil, err
	}
	if err := a.buildArchive(ctx); err != nil {
		return nil, err
	}
	if err := a.buildStore(ctx); err != nil {
		return nil, err
	}
	if err := a.buildNotifier(ctx); err != nil {
		return nil, err
	}
	if err := a.buildProgress(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) buildRenderer() error {
	switch a.cfg.Render.Backend {
	case config.BackendChromedp:
		r, err := renderer.NewChromedp(renderer.BrowserConfig{
			ExecPath:   a.cfg.Browser.ExecPath,
			Headless:   a.cfg.Browser.Headless,
			UserAgent:  a.cfg.Browser.UserAgent,
			Settle:     a.cfg.Browser.Settle,
			NavTimeout: a.cfg.Browser.NavTimeout,
		}, a.logger.Named("renderer"))
		if err != nil {
			return fmt.Errorf("init chromedp renderer: %w", err)
		}
		a.renderer = r
	case config.BackendStatic:
		a.renderer = renderer.NewStatic(renderer.StaticConfig{
			UserAgent: a.cfg.Browser.UserAgent,
			Timeout:   a.cfg.Browser.NavTimeout,
		})
	default:
		return fmt.Errorf("unknown render backend %q", a.cfg.Render.Backend)
	}
	return nil
}

func (a *app) buildArchive(ctx context.Context) error {
	switch a.cfg.Archive.Backend {
	case "":
	case config.ArchiveMemory:
		a.archive = archivememory.New()
	case config.ArchiveLocal:
		store, err := archivelocal.New(a.cfg.Archive.LocalDir)
		if err != nil {
			return fmt.Errorf("init local archive: %w", err)
		}
		a.archive = store
	case config.ArchiveGCS:
		client, err := storage.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("init gcs client: %w", err)
		}
		store, err := archivegcs.New(client, a.cfg.Archive.Bucket, a.cfg.Archive.Prefix)
		if err != nil {
			return fmt.Errorf("init gcs archive: %w", err)
		}
		a.archive = store
	default:
		return fmt.Errorf("unknown archive backend %q", a.cfg.Archive.Backend)
	}
	return nil
}

func (a *app) buildStore(ctx context.Context) error {
	if a.cfg.Database.DSN == "" {
		return nil
	}
	store, err := storepostgres.New(ctx, a.cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("init observation store: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return err
	}
	a.store = store
	return nil
}

func (a *app) buildNotifier(ctx context.Context) error {
	if a.cfg.PubSub.ProjectID == "" {
		return nil
	}
	pub, err := notifypubsub.New(ctx, a.cfg.PubSub.ProjectID, a.cfg.PubSub.Topic)
	if err != nil {
		return fmt.Errorf("init notifier: %w", err)
	}
	a.notifier = pub
	a.notifyDn = func() {
		if err := pub.Close(); err != nil {
			a.logger.Warn("close notifier failed", zap.Error(err))
		}
	}
	return nil
}

func (a *app) buildProgress() error {
	promSink, err := sinks.NewPrometheusSink(a.registry)
	if err != nil {
		return err
	}
	a.hub = progress.NewHub(
		progress.Config{Logger: a.logger.Named("progress")},
		sinks.NewLogSink(a.logger.Named("progress")),
		promSink,
	)
	if a.cfg.Metrics.Addr != "" {
		a.ops = ops.New(a.cfg.Metrics.Addr, a.registry, a.logger.Named("ops"))
		a.ops.Start()
	}
	return nil
}

// close tears the app down in reverse construction order.
func (a *app) close() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.ops != nil {
		if err := a.ops.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("ops shutdown failed", zap.Error(err))
		}
	}
	if err := a.hub.Close(shutdownCtx); err != nil {
		a.logger.Warn("progress hub close failed", zap.Error(err))
	}
	if a.notifyDn != nil {
		a.notifyDn()
	}
	if a.store != nil {
		a.store.Close()
	}
	_ = a.logger.Sync() //nolint:errcheck // best-effort flush
}

// newScraper builds the per-run pipeline tagged with a fresh run ID.
func (a *app) newScraper() (*scraper.Scraper, uuid.UUID, error) {
	runID, err := a.idGen.NewRunID()
	if err != nil {
		return nil, uuid.UUID{}, err
	}
	s := scraper.New(
		scraper.Config{
			BaseURL:     a.cfg.BaseURL,
			MaxAttempts: a.cfg.Retry.MaxAttempts,
			Wait:        a.cfg.Retry.Wait,
			RunID:       runID,
		},
		a.renderer,
		wunderground.NewExtractor(a.cfg.Selectors.Selectors()),
		a.archive,
		a.hub,
		a.logger.Named("scraper"),
	)
	return s, runID, nil
}

// runRange fetches [start, end] for the station, writes the CSV, persists
// to the observation store when configured, and publishes the run summary.
func (a *app) runRange(
	ctx context.Context,
	station string,
	start, end time.Time,
	freq wunderground.Frequency,
	filename string,
) error {
	s, runID, err := a.newScraper()
	if err != nil {
		return err
	}
	runStart := a.clock.Now()
	a.emitRun(runID, progress.StageRunStart, station, freq, 0, 0, "")

	table, report, err := s.FetchRange(ctx, station, start, end, freq)
	if err != nil {
		a.emitRun(runID, progress.StageRunError, station, freq, 0, a.clock.Now().Sub(runStart), err.Error())
		return err
	}

	outPath := filepath.Join(a.cfg.Output.Dir, filename)
	if err := writeTableFile(outPath, table); err != nil {
		a.emitRun(runID, progress.StageRunError, station, freq, 0, a.clock.Now().Sub(runStart), err.Error())
		return err
	}
	a.logger.Info("output written",
		zap.String("path", outPath),
		zap.Int("rows", table.Len()),
		zap.Int("days_empty", report.EmptyDays),
	)

	if a.store != nil {
		written, err := a.store.Upsert(ctx, station, freq, table)
		if err != nil {
			a.emitRun(runID, progress.StageRunError, station, freq, table.Len(), a.clock.Now().Sub(runStart), err.Error())
			return fmt.Errorf("persist observations: %w", err)
		}
		a.logger.Info("observations persisted", zap.Int64("rows", written))
	}

	a.emitRun(runID, progress.StageRunDone, station, freq, table.Len(), a.clock.Now().Sub(runStart), "")
	a.publishSummary(ctx, notify.RunSummary{
		RunID:      runID.String(),
		Station:    station,
		Mode:       freq,
		StartDate:  start.Format(wunderground.DateLayout),
		EndDate:    end.Format(wunderground.DateLayout),
		Rows:       table.Len(),
		DaysTotal:  report.Days,
		DaysEmpty:  report.EmptyDays,
		OutputURI:  outPath,
		FinishedAt: a.clock.Now(),
	})
	return nil
}

func (a *app) emitRun(
	runID uuid.UUID,
	stage progress.Stage,
	station string,
	mode wunderground.Frequency,
	rows int,
	dur time.Duration,
	note string,
) {
	a.hub.Emit(progress.Event{
		RunID:   progress.UUIDToBytes(runID),
		TS:      a.clock.Now(),
		Stage:   stage,
		Station: station,
		Mode:    mode,
		Rows:    rows,
		Dur:     dur,
		Note:    note,
	})
}

func (a *app) publishSummary(ctx context.Context, summary notify.RunSummary) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.Publish(ctx, summary); err != nil {
		a.logger.Warn("run summary publish failed", zap.Error(err))
	}
}

// writeTableFile writes the table as CSV at path. A column-less table still
// produces the file, empty, so a completed run always leaves its artifact.
func writeTableFile(path string, table *wunderground.Table) error {
	f, err := os.Create(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := wunderground.WriteCSV(table, f); err != nil && !errors.Is(err, wunderground.ErrNoColumns) {
		_ = f.Close() //nolint:errcheck
		return fmt.Errorf("write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}
