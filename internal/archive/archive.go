// Package archive stores rendered pages so failed extractions can be
// inspected after the fact.
package archive

import (
	"context"
	"fmt"

	"github.com/zperzan/scrape-wunderground/internal/wunderground"
)

// Store persists one rendered page per key and returns a URI locating it.
// Rewriting an existing key replaces the object: the latest render wins.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (uri string, err error)
}

// PageKey names the archived object for a scrape request:
// {station}/{mode}/{date}.html.
func PageKey(req wunderground.Request) string {
	return fmt.Sprintf("%s/%s/%s.html", req.Station, req.Freq, req.Date.Format(wunderground.DateLayout))
}
