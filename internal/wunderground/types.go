package wunderground

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date form used on the CLI, in dashboard URLs,
// and in output filenames.
const DateLayout = "2006-01-02"

// Frequency selects which observation view of a station is scraped.
type Frequency string

// Supported observation frequencies.
const (
	// Freq5Min is the 5-minute observation table for a single day.
	Freq5Min Frequency = "5min"
	// FreqDaily is the per-day summary table for a whole month.
	FreqDaily Frequency = "daily"
)

var (
	columns5Min = []string{
		"Temperature", "Dew Point", "Humidity", "Wind Speed",
		"Wind Gust", "Pressure", "Precip. Rate", "Precip. Accum.",
	}
	columnsDaily = []string{
		"Temperature_High", "Temperature_Avg", "Temperature_Low",
		"DewPoint_High", "DewPoint_Avg", "DewPoint_Low",
		"Humidity_High", "Humidity_Avg", "Humidity_Low",
		"WindSpeed_High", "WindSpeed_Avg", "WindSpeed_Low",
		"Pressure_High", "Pressure_Low", "Precip_Sum",
	}
)

// ParseFrequency converts a CLI argument into a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case Freq5Min:
		return Freq5Min, nil
	case FreqDaily:
		return FreqDaily, nil
	default:
		return "", fmt.Errorf("unknown frequency %q (want %q or %q)", s, Freq5Min, FreqDaily)
	}
}

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	return f == Freq5Min || f == FreqDaily
}

// Columns returns the ordered column names observations carry at this
// frequency. The returned slice is a copy.
func (f Frequency) Columns() []string {
	switch f {
	case Freq5Min:
		return append([]string(nil), columns5Min...)
	case FreqDaily:
		return append([]string(nil), columnsDaily...)
	default:
		return nil
	}
}

// ColumnCount returns the fixed observation width for the frequency.
func (f Frequency) ColumnCount() int {
	switch f {
	case Freq5Min:
		return len(columns5Min)
	case FreqDaily:
		return len(columnsDaily)
	default:
		return 0
	}
}

// timespan returns the dashboard path segment for the frequency. The site
// names the single-day 5-minute view "daily" and the month-of-daily-summaries
// view "monthly", so the mapping is inverted relative to the frequency names
// and must stay that way.
func (f Frequency) timespan() string {
	if f == Freq5Min {
		return "daily"
	}
	return "monthly"
}

// Request identifies one station-day (or station-month, for daily summaries)
// table fetch. It is immutable and fully determines the target URL.
type Request struct {
	Station string
	Date    time.Time
	Freq    Frequency
}

// URL builds the dashboard table URL for the request under the given base.
func (r Request) URL(base string) string {
	day := r.Date.Format(DateLayout)
	return fmt.Sprintf("%s/dashboard/pws/%s/table/%s/%s/%s",
		strings.TrimRight(base, "/"), r.Station, day, day, r.Freq.timespan())
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
