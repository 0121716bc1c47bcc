package wunderground

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MissingToken is the literal the site renders for a reading its sensor did
// not report.
const MissingToken = "--"

// Timestamp layouts observed on dashboard pages. 5-minute rows carry
// time-of-day only and are prefixed with the request date before parsing;
// daily-summary rows carry full dates.
var (
	fiveMinLayouts = []string{"2006-01-02 3:04 PM", "2006-01-02 15:04"}
	dailyLayouts   = []string{"1/2/2006", "2006-01-02"}
)

// Normalize converts a raw fragment pair into a typed observation table for
// the request date and frequency. Missing-value tokens become nil cells and
// every other value must parse as a float (ParseError otherwise). The flat
// value list is reshaped row-major into the frequency's fixed column width;
// a count that does not divide evenly, or a row count different from the
// timestamp count, is a ShapeError.
func Normalize(timestamps, values []string, date time.Time, freq Frequency) (*Table, error) {
	width := freq.ColumnCount()
	if width == 0 {
		return nil, fmt.Errorf("unknown frequency %q", freq)
	}
	if len(values)%width != 0 || len(values)/width != len(timestamps) {
		return nil, &ShapeError{Values: len(values), Width: width, Timestamps: len(timestamps)}
	}

	cells := make([]*float64, len(values))
	for i, raw := range values {
		raw = strings.TrimSpace(raw)
		if raw == MissingToken {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &ParseError{Token: raw, Err: err}
		}
		cells[i] = &v
	}

	table := NewTable(freq.Columns())
	day := date.Format(DateLayout)
	for i, raw := range timestamps {
		raw = strings.TrimSpace(raw)
		candidate, layouts := raw, dailyLayouts
		if freq == Freq5Min {
			candidate, layouts = day+" "+raw, fiveMinLayouts
		}
		ts, err := parseAny(candidate, layouts)
		if err != nil {
			return nil, &ParseError{Token: raw, Err: err}
		}
		if err := table.AddRow(ts, cells[i*width:(i+1)*width]); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// parseAny tries each layout in order and returns the first match.
func parseAny(s string, layouts []string) (time.Time, error) {
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
