package progress

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/zperzan/scrape-wunderground/internal/logging"
)

// Config controls buffering and batching for the Hub.
type Config struct {
	// BufferSize is the internal channel capacity (default 1024).
	BufferSize int
	// MaxBatchEvents flushes once this many events queue (default 256).
	MaxBatchEvents int
	// MaxBatchWait flushes a partial batch after this long (default 500ms).
	MaxBatchWait time.Duration
	// SinkTimeout bounds each sink call during a flush (default 10s).
	SinkTimeout time.Duration
	// Logger receives hub warnings.
	Logger *zap.Logger
}

const (
	defaultBufferSize     = 1024
	defaultMaxBatchEvents = 256
	defaultMaxBatchWait   = 500 * time.Millisecond
	defaultSinkTimeout    = 10 * time.Second
	dropLogInterval       = 5 * time.Second
)

// Hub buffers Events and fans batches out to its sinks from a single
// background goroutine. Emit never blocks: scraping is the product, the
// event stream is observability, so a saturated hub sheds its oldest events
// and accounts for them instead of stalling the pipeline.
type Hub struct {
	cfg     Config
	sinks   []Sink
	events  chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	logger  *zap.Logger
	dropped atomic.Int64
	lastLog atomic.Int64
	closed  atomic.Bool

	closeOnce sync.Once
}

// NewHub starts a Hub feeding the given sinks. The returned Hub accepts
// events immediately.
func NewHub(cfg Config, sinks ...Sink) *Hub {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.MaxBatchEvents <= 0 {
		cfg.MaxBatchEvents = defaultMaxBatchEvents
	}
	if cfg.MaxBatchWait <= 0 {
		cfg.MaxBatchWait = defaultMaxBatchWait
	}
	if cfg.SinkTimeout <= 0 {
		cfg.SinkTimeout = defaultSinkTimeout
	}
	h := &Hub{
		cfg:    cfg,
		sinks:  append([]Sink(nil), sinks...),
		events: make(chan Event, cfg.BufferSize),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		logger: logging.OrNop(cfg.Logger),
	}
	go h.run()
	return h
}

// Emit enqueues an Event. When the buffer is full the oldest queued event is
// discarded to make room, and the discard is counted and logged at a capped
// rate. A nil Hub discards silently, so callers can leave progress unwired.
func (h *Hub) Emit(evt Event) {
	if h == nil || h.closed.Load() {
		return
	}
	if err := evt.Validate(); err != nil {
		h.logger.Debug("discarding invalid progress event", zap.Error(err))
		return
	}
	for {
		select {
		case h.events <- evt:
			return
		default:
		}
		select {
		case <-h.events:
			h.recordDrop()
		default:
		}
	}
}

func (h *Hub) recordDrop() {
	total := h.dropped.Add(1)
	now := time.Now().UnixNano()
	last := h.lastLog.Load()
	if now-last < int64(dropLogInterval) || !h.lastLog.CompareAndSwap(last, now) {
		return
	}
	h.logger.Warn("progress events dropped due to backpressure",
		zap.Int64("dropped_total", total))
}

// Dropped reports how many events have been shed so far.
func (h *Hub) Dropped() int64 {
	if h == nil {
		return 0
	}
	return h.dropped.Load()
}

// Close drains buffered events, flushes and closes the sinks, and waits for
// the background goroutine. Safe to call more than once.
func (h *Hub) Close(ctx context.Context) error {
	if h == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	h.closeOnce.Do(func() {
		h.closed.Store(true)
		close(h.stopCh)
	})
	select {
	case <-h.doneCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("progress hub close wait: %w", ctx.Err())
	}
}

func (h *Hub) run() {
	defer close(h.doneCh)
	batch := make([]Event, 0, h.cfg.MaxBatchEvents)
	ticker := time.NewTicker(h.cfg.MaxBatchWait)
	defer ticker.Stop()
	for {
		select {
		case evt := <-h.events:
			batch = append(batch, evt)
			if len(batch) >= h.cfg.MaxBatchEvents {
				h.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				h.flush(batch)
				batch = batch[:0]
			}
		case <-h.stopCh:
			h.drain(batch)
			return
		}
	}
}

func (h *Hub) drain(batch []Event) {
	for {
		select {
		case evt := <-h.events:
			batch = append(batch, evt)
		default:
			if len(batch) > 0 {
				h.flush(batch)
			}
			h.closeSinks()
			return
		}
	}
}

func (h *Hub) flush(batch []Event) {
	copyBatch := append([]Event(nil), batch...)
	for _, sink := range h.sinks {
		if sink == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), h.cfg.SinkTimeout)
		if err := sink.Consume(ctx, copyBatch); err != nil {
			h.logger.Warn("progress sink consume failed", zap.Error(err))
		}
		cancel()
	}
}

func (h *Hub) closeSinks() {
	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.SinkTimeout)
	defer cancel()
	for _, sink := range h.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Close(ctx); err != nil {
			h.logger.Warn("progress sink close failed", zap.Error(err))
		}
	}
}
