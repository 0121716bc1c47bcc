// Package memory records published run summaries in-process, for tests.
package memory

import (
	"context"
	"sync"

	"github.com/zperzan/scrape-wunderground/internal/notify"
)

// Publisher stores published summaries for inspection.
type Publisher struct {
	mu        sync.RWMutex
	summaries []notify.RunSummary
}

// New returns an empty memory Publisher.
func New() *Publisher {
	return &Publisher{}
}

// Publish records the summary.
func (p *Publisher) Publish(_ context.Context, summary notify.RunSummary) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.summaries = append(p.summaries, summary)
	return nil
}

// Summaries returns the recorded publishes.
func (p *Publisher) Summaries() []notify.RunSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]notify.RunSummary, len(p.summaries))
	copy(out, p.summaries)
	return out
}
