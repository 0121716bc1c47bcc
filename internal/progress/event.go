// Package progress defines the event stream emitted by scrape runs.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zperzan/scrape-wunderground/internal/wunderground"
)

// Stage denotes the milestone an Event records.
type Stage string

// Supported progress stages.
const (
	StageRunStart     Stage = "RUN_START"
	StageDayStart     Stage = "DAY_START"
	StageAttemptRetry Stage = "ATTEMPT_RETRY"
	StageDayDone      Stage = "DAY_DONE"
	StageDayEmpty     Stage = "DAY_EMPTY"
	StageRunDone      Stage = "RUN_DONE"
	StageRunError     Stage = "RUN_ERROR"
)

// Event captures one milestone of a scrape run. Day-scoped stages carry the
// station, mode, and date; DAY_DONE additionally carries the row count and
// attempt number, DAY_EMPTY the exhausted attempt count.
type Event struct {
	// RunID identifies the CLI invocation, in 16-byte UUID form.
	RunID [16]byte
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage is the milestone.
	Stage Stage
	// Station is the PWS identifier for day-scoped events.
	Station string
	// Mode is the observation frequency.
	Mode wunderground.Frequency
	// Date is the scraped calendar day for day-scoped events.
	Date time.Time
	// Attempt counts pipeline attempts for the day, starting at 1.
	Attempt int
	// Rows is the observation row count delivered by the stage.
	Rows int
	// Dur captures wall time for completed days and runs.
	Dur time.Duration
	// Note carries low-volume context such as error text.
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == [16]byte{} {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone, StageRunError:
	case StageDayStart, StageAttemptRetry, StageDayDone, StageDayEmpty:
		if e.Station == "" {
			return fmt.Errorf("%s requires a station", e.Stage)
		}
		if e.Date.IsZero() {
			return fmt.Errorf("%s requires a date", e.Stage)
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	if e.Rows < 0 {
		return errors.New("rows must be >= 0")
	}
	return nil
}

// RunUUID converts the binary run ID to uuid.UUID for labels and payloads.
func (e Event) RunUUID() uuid.UUID {
	return uuid.UUID(e.RunID)
}

// UUIDToBytes encodes a uuid.UUID into the Event form.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var dest [16]byte
	copy(dest[:], id[:])
	return dest
}
