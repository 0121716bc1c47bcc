package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "https://www.wunderground.com", cfg.BaseURL)
	require.Equal(t, BackendChromedp, cfg.Render.Backend)
	require.Equal(t, "/usr/bin/chromium", cfg.Browser.ExecPath)
	require.True(t, cfg.Browser.Headless)
	require.Equal(t, 3*time.Second, cfg.Browser.Settle)
	require.Equal(t, 45*time.Second, cfg.Browser.NavTimeout)
	require.Equal(t, 4, cfg.Retry.MaxAttempts)
	require.Equal(t, 5*time.Second, cfg.Retry.Wait)
	require.Equal(t, "lib-history-table", cfg.Selectors.Table)
	require.Equal(t, ".", cfg.Output.Dir)
	require.Empty(t, cfg.Archive.Backend)
	require.Empty(t, cfg.Database.DSN)
	require.Empty(t, cfg.Metrics.Addr)
	require.Equal(t, "06:30", cfg.Watch.At)
}

func TestLoadWithFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
base_url: https://example.test
browser:
  exec_path: /opt/chrome/chrome
  headless: false
  settle: 1s
  nav_timeout: 10s
retry:
  max_attempts: 2
  wait: 100ms
selectors:
  table: div.history
output:
  dir: /tmp/out
archive:
  backend: local
  local_dir: /tmp/raw
database:
  dsn: postgres://localhost/pws
metrics:
  addr: ":9102"
logging:
  development: false
watch:
  at: "04:15"
  timezone: America/Denver
`
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "https://example.test", cfg.BaseURL)
	require.Equal(t, "/opt/chrome/chrome", cfg.Browser.ExecPath)
	require.False(t, cfg.Browser.Headless)
	require.Equal(t, time.Second, cfg.Browser.Settle)
	require.Equal(t, 2, cfg.Retry.MaxAttempts)
	require.Equal(t, 100*time.Millisecond, cfg.Retry.Wait)
	require.Equal(t, "div.history", cfg.Selectors.Table)
	// Selector overrides leave the untouched classes at their defaults.
	require.Equal(t, "wu-value wu-value-to", cfg.Selectors.ValueClass)
	require.Equal(t, "/tmp/out", cfg.Output.Dir)
	require.Equal(t, ArchiveLocal, cfg.Archive.Backend)
	require.Equal(t, "postgres://localhost/pws", cfg.Database.DSN)
	require.Equal(t, ":9102", cfg.Metrics.Addr)
	require.False(t, cfg.Logging.Development)
	require.Equal(t, "04:15", cfg.Watch.At)
	require.Equal(t, "America/Denver", cfg.Watch.Timezone)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PWS_RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("PWS_BROWSER_EXEC_PATH", "/usr/bin/google-chrome")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Retry.MaxAttempts)
	require.Equal(t, "/usr/bin/google-chrome", cfg.Browser.ExecPath)
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	valid, err := Load("")
	require.NoError(t, err)

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing browser path",
			mutate:  func(c *Config) { c.Browser.ExecPath = "" },
			wantErr: "browser.exec_path",
		},
		{
			name:    "unknown render backend",
			mutate:  func(c *Config) { c.Render.Backend = "phantomjs" },
			wantErr: "render.backend",
		},
		{
			name:    "zero attempts",
			mutate:  func(c *Config) { c.Retry.MaxAttempts = 0 },
			wantErr: "retry.max_attempts",
		},
		{
			name:    "negative settle",
			mutate:  func(c *Config) { c.Browser.Settle = -time.Second },
			wantErr: "browser.settle",
		},
		{
			name:    "gcs archive without bucket",
			mutate:  func(c *Config) { c.Archive.Backend = ArchiveGCS },
			wantErr: "archive.bucket",
		},
		{
			name:    "unknown archive backend",
			mutate:  func(c *Config) { c.Archive.Backend = "s3" },
			wantErr: "archive.backend",
		},
		{
			name:    "pubsub topic without project",
			mutate:  func(c *Config) { c.PubSub.Topic = "runs" },
			wantErr: "pubsub",
		},
		{
			name:    "bad watch time",
			mutate:  func(c *Config) { c.Watch.At = "6:3pm" },
			wantErr: "watch.at",
		},
		{
			name:    "bad timezone",
			mutate:  func(c *Config) { c.Watch.Timezone = "Mars/Olympus" },
			wantErr: "watch.timezone",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestStaticBackendNeedsNoBrowser(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Render.Backend = BackendStatic
	cfg.Browser.ExecPath = ""
	require.NoError(t, cfg.Validate())
}
