package renderer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/zperzan/scrape-wunderground/internal/wunderground"
)

// StaticConfig controls the static renderer.
type StaticConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// Static fetches pages over plain HTTP via colly, without executing
// JavaScript. It serves tests against httptest servers and debugging runs;
// against the live dashboard the table never materializes and extraction
// fails like any other bad render.
type Static struct {
	base *colly.Collector
}

// NewStatic builds a Static renderer.
func NewStatic(cfg StaticConfig) *Static {
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c.SetRequestTimeout(timeout)
	return &Static{base: c}
}

// Render fetches url and returns the raw response body.
func (s *Static) Render(ctx context.Context, url string) (string, error) {
	var (
		once     sync.Once
		body     []byte
		fetchErr error
	)
	collector := s.base.Clone()
	collector.OnResponse(func(r *colly.Response) {
		once.Do(func() {
			body = append([]byte(nil), r.Body...)
		})
	})
	collector.OnError(func(_ *colly.Response, err error) {
		once.Do(func() {
			fetchErr = err
		})
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return "", &wunderground.RenderError{URL: url, Err: ctx.Err()}
	case err := <-done:
		if err != nil {
			return "", &wunderground.RenderError{URL: url, Err: fmt.Errorf("visit: %w", err)}
		}
	}
	if fetchErr != nil {
		return "", &wunderground.RenderError{URL: url, Err: fetchErr}
	}
	return string(body), nil
}
