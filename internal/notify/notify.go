// Package notify publishes run-completion summaries.
package notify

import (
	"context"
	"time"

	"github.com/zperzan/scrape-wunderground/internal/wunderground"
)

// RunSummary is the payload published once per completed run.
type RunSummary struct {
	RunID      string                 `json:"run_id"`
	Station    string                 `json:"station"`
	Mode       wunderground.Frequency `json:"mode"`
	StartDate  string                 `json:"start_date"`
	EndDate    string                 `json:"end_date"`
	Rows       int                    `json:"rows"`
	DaysTotal  int                    `json:"days_total"`
	DaysEmpty  int                    `json:"days_empty"`
	OutputURI  string                 `json:"output_uri"`
	FinishedAt time.Time              `json:"finished_at"`
}

// Publisher delivers one RunSummary per call. Publish failures are reported
// to the caller, who logs and moves on: notification is best-effort and
// never fails a run that already produced its output file.
type Publisher interface {
	Publish(ctx context.Context, summary RunSummary) error
}
