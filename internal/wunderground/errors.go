package wunderground

import (
	"fmt"
	"time"
)

// RenderError reports a browser or driver failure while rendering a page.
type RenderError struct {
	URL string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.URL, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ExtractionError reports that markup the extractor depends on is absent,
// typically because the site layout changed, the station has no data, or the
// page never finished rendering.
type ExtractionError struct {
	Selector string
	Detail   string
}

func (e *ExtractionError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("extract: %s", e.Detail)
	}
	return fmt.Sprintf("extract %q: %s", e.Selector, e.Detail)
}

// ParseError reports a token that is neither the missing-value sentinel nor
// parseable as its expected form.
type ParseError struct {
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ShapeError reports a mismatch between the flat value count, the fixed
// column width, and the timestamp count of an extracted fragment pair.
type ShapeError struct {
	Values     int
	Width      int
	Timestamps int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("reshape %d values into rows of %d for %d timestamps",
		e.Values, e.Width, e.Timestamps)
}

// RangeError reports an end date earlier than its start date.
type RangeError struct {
	Start time.Time
	End   time.Time
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s before start %s",
		e.End.Format(DateLayout), e.Start.Format(DateLayout))
}
