package ops

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv := New(":0", prometheus.NewRegistry(), nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "ok\n", string(body))
}

func TestMetricsExposition(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pws_test_total",
		Help: "Test counter.",
	})
	require.NoError(t, reg.Register(counter))
	counter.Add(3)

	srv := New(":0", reg, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "pws_test_total 3")
}

func TestStartAndShutdown(t *testing.T) {
	t.Parallel()

	srv := New("127.0.0.1:0", prometheus.NewRegistry(), nil)
	srv.Start()
	require.NoError(t, srv.Shutdown(context.Background()))
}
