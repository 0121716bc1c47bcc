package wunderground

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors names the markup fragments observations are read from. The class
// strings track the site's current styling; when the markup shifts they are
// overridden through configuration rather than code edits.
type Selectors struct {
	// Table is the element wrapping the whole history table.
	Table string
	// ValueClass is the span class carrying a present reading.
	ValueClass string
	// NoValueClass is the span class marking an explicitly missing reading.
	NoValueClass string
}

// DefaultSelectors matches the dashboard markup as of the last site survey.
func DefaultSelectors() Selectors {
	return Selectors{
		Table:        "lib-history-table",
		ValueClass:   "wu-value wu-value-to",
		NoValueClass: "wu-unit-no-value ng-star-inserted",
	}
}

// Extractor pulls raw timestamp and value strings out of rendered history
// pages.
type Extractor struct {
	sel Selectors
}

// NewExtractor builds an Extractor; empty selector fields fall back to the
// defaults.
func NewExtractor(sel Selectors) *Extractor {
	def := DefaultSelectors()
	if sel.Table == "" {
		sel.Table = def.Table
	}
	if sel.ValueClass == "" {
		sel.ValueClass = def.ValueClass
	}
	if sel.NoValueClass == "" {
		sel.NoValueClass = def.NoValueClass
	}
	return &Extractor{sel: sel}
}

// Extract locates the history table in html and returns its row timestamps
// and flattened cell values, both as raw strings in document order. The table
// holds two tbody sections: the first one row per timestamp, the second the
// value spans, present and missing readings interleaved row-major. Absent or
// truncated markup is an ExtractionError.
func (e *Extractor) Extract(html string) ([]string, []string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, &ExtractionError{Detail: fmt.Sprintf("parse document: %v", err)}
	}

	table := doc.Find(e.sel.Table)
	if table.Length() == 0 {
		return nil, nil, &ExtractionError{Selector: e.sel.Table, Detail: "history table not found"}
	}

	bodies := table.First().Find("tbody")
	if bodies.Length() < 2 {
		return nil, nil, &ExtractionError{
			Selector: e.sel.Table,
			Detail:   fmt.Sprintf("want 2 tbody sections, found %d", bodies.Length()),
		}
	}

	var timestamps []string
	bodies.Eq(0).Find("tr").Each(func(_ int, row *goquery.Selection) {
		timestamps = append(timestamps, strings.TrimSpace(row.Text()))
	})

	cellSel := classSelector("span", e.sel.ValueClass) + ", " + classSelector("span", e.sel.NoValueClass)
	var values []string
	bodies.Eq(1).Find(cellSel).Each(func(_ int, cell *goquery.Selection) {
		values = append(values, strings.TrimSpace(cell.Text()))
	})

	return timestamps, values, nil
}

// classSelector turns a space-separated class attribute into a CSS selector
// for elements carrying every listed class.
func classSelector(tag, classes string) string {
	return tag + "." + strings.Join(strings.Fields(classes), ".")
}
