package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/zperzan/scrape-wunderground/internal/logging"
	"github.com/zperzan/scrape-wunderground/internal/progress"
	"github.com/zperzan/scrape-wunderground/internal/wunderground"
)

// LogSink writes one structured log line per progress event. It is the
// default sink for interactive runs.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logging.OrNop(logger)}
}

// Consume logs each event in the batch using structured fields.
func (s *LogSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		fields := []zap.Field{
			zap.String("run_id", evt.RunUUID().String()),
			zap.String("stage", string(evt.Stage)),
		}
		if evt.Station != "" {
			fields = append(fields,
				zap.String("station", evt.Station),
				zap.String("mode", string(evt.Mode)),
				zap.String("date", evt.Date.Format(wunderground.DateLayout)),
			)
		}
		if evt.Attempt > 0 {
			fields = append(fields, zap.Int("attempt", evt.Attempt))
		}
		if evt.Rows > 0 {
			fields = append(fields, zap.Int("rows", evt.Rows))
		}
		if evt.Dur > 0 {
			fields = append(fields, zap.Duration("dur", evt.Dur))
		}
		if evt.Note != "" {
			fields = append(fields, zap.String("note", evt.Note))
		}
		s.logger.Info("progress event", fields...)
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
