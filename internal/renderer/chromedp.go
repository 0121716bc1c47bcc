package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/zperzan/scrape-wunderground/internal/logging"
	"github.com/zperzan/scrape-wunderground/internal/wunderground"
)

// BrowserConfig controls the chromedp renderer. ExecPath is required: the
// browser binary location is an explicit constructor parameter, never
// process-wide state.
type BrowserConfig struct {
	ExecPath   string
	Headless   bool
	UserAgent  string
	Settle     time.Duration
	NavTimeout time.Duration
}

// Chromedp renders pages in a browser via chromedp. Every Render call
// launches a fresh browser process and tears it down before returning, so
// calls share no session state and a crashed page cannot poison later
// fetches.
type Chromedp struct {
	cfg    BrowserConfig
	logger *zap.Logger
}

// NewChromedp builds a Chromedp renderer.
func NewChromedp(cfg BrowserConfig, logger *zap.Logger) (*Chromedp, error) {
	if cfg.ExecPath == "" {
		return nil, fmt.Errorf("browser exec path is required")
	}
	if cfg.Settle <= 0 {
		cfg.Settle = 3 * time.Second
	}
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 45 * time.Second
	}
	return &Chromedp{cfg: cfg, logger: logging.OrNop(logger)}, nil
}

// Render navigates to url, waits for the document body plus the configured
// settle pause so client-side rendering can finish, and returns the outer
// HTML. The dashboard exposes no readiness signal, so the settle pause is a
// fixed wait. The browser contexts are cancelled on every return path.
func (r *Chromedp) Render(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(r.cfg.ExecPath),
		chromedp.Flag("headless", r.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if r.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(r.cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	taskCtx, taskCancel := context.WithTimeout(browserCtx, r.cfg.NavTimeout)
	defer taskCancel()

	start := time.Now()
	html, err := r.run(taskCtx, url)
	if err != nil {
		return "", &wunderground.RenderError{URL: url, Err: err}
	}
	r.logger.Debug("page rendered",
		zap.String("url", url),
		zap.Int("bytes", len(html)),
		zap.Duration("dur", time.Since(start)),
	)
	return html, nil
}

func (r *Chromedp) run(ctx context.Context, url string) (string, error) {
	var html string
	tasks := chromedp.Tasks{
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(r.cfg.Settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}
	if r.cfg.UserAgent != "" {
		tasks = append(chromedp.Tasks{emulation.SetUserAgentOverride(r.cfg.UserAgent)}, tasks...)
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return "", fmt.Errorf("chromedp run: %w", err)
	}
	return html, nil
}
