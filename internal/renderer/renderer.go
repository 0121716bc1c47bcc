// Package renderer turns dashboard URLs into fully rendered HTML.
package renderer

import "context"

// Renderer fetches a URL and returns the final document source. The
// chromedp backend executes the page's JavaScript; the static backend
// returns the server response as-is. Neither retries: failed renders
// surface to the fetch loop, which owns retry policy.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}
