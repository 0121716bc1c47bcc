package renderer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zperzan/scrape-wunderground/internal/wunderground"
)

func TestStaticRenderReturnsBody(t *testing.T) {
	t.Parallel()

	const page = "<html><body><lib-history-table></lib-history-table></body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	r := NewStatic(StaticConfig{Timeout: 5 * time.Second})
	html, err := r.Render(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, page, html)
}

func TestStaticRenderServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewStatic(StaticConfig{})
	_, err := r.Render(context.Background(), srv.URL)
	require.Error(t, err)

	var renderErr *wunderground.RenderError
	require.True(t, errors.As(err, &renderErr))
	require.Equal(t, srv.URL, renderErr.URL)
}

func TestStaticRenderUnreachableHost(t *testing.T) {
	t.Parallel()

	r := NewStatic(StaticConfig{Timeout: time.Second})
	_, err := r.Render(context.Background(), "http://127.0.0.1:1/never")
	require.Error(t, err)

	var renderErr *wunderground.RenderError
	require.True(t, errors.As(err, &renderErr))
}

func TestStaticRenderIsolatesCalls(t *testing.T) {
	t.Parallel()

	bodies := []string{"first", "second"}
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(bodies[calls%len(bodies)]))
		calls++
	}))
	defer srv.Close()

	r := NewStatic(StaticConfig{})
	first, err := r.Render(context.Background(), srv.URL)
	require.NoError(t, err)
	second, err := r.Render(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "first", first)
	require.Equal(t, "second", second)
}
