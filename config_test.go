package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig("", "")
	require.NoError(t, err)

	assert.Empty(t, cfg.BaseURL)
	assert.Equal(t, 0, cfg.Retry.Count)
	assert.Equal(t, time.Second, cfg.Retry.Delay)
	assert.Equal(t, BackoffConstant, cfg.Retry.Backoff)
	assert.Empty(t, cfg.Retry.StatusCodes)
}

func TestLoadConfig_File(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
baseurl: https://api.example.com
timeout: 5s
headers:
  X-Api-Key: secret
retry:
  count: 4
  delay: 200ms
  backoff: exponential
  maxdelay: 2s
  statuscodes: [429, 503]
`)

	cfg, err := LoadConfig(path, "")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "secret", cfg.Headers["X-Api-Key"])
	assert.Equal(t, 4, cfg.Retry.Count)
	assert.Equal(t, 200*time.Millisecond, cfg.Retry.Delay)
	assert.Equal(t, BackoffExponential, cfg.Retry.Backoff)
	assert.Equal(t, 2*time.Second, cfg.Retry.MaxDelay)
	assert.Equal(t, []int{429, 503}, cfg.Retry.StatusCodes)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
baseurl: https://file.example.com
retry:
  count: 1
`)

	t.Setenv("FETCHTEST_BASEURL", "https://env.example.com")
	t.Setenv("FETCHTEST_RETRY_COUNT", "6")
	t.Setenv("FETCHTEST_RETRY_DELAY", "50ms")

	cfg, err := LoadConfig(path, "FETCHTEST_")
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.BaseURL)
	assert.Equal(t, 6, cfg.Retry.Count)
	assert.Equal(t, 50*time.Millisecond, cfg.Retry.Delay)
}

func TestLoadConfig_EnvPrefixWithoutSeparator(t *testing.T) {
	t.Setenv("FETCHNOSEP_RETRY_COUNT", "3")
	t.Setenv("FETCHNOSEP_TIMEOUT", "2s")

	cfg, err := LoadConfig("", "FETCHNOSEP")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Retry.Count)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), "")
		assert.ErrorContains(t, err, "failed to load")
	})

	tests := []struct {
		name      string
		content   string
		wantError string
	}{
		{"negative count", "retry:\n  count: -1\n", "retry.count must not be negative"},
		{"unknown backoff", "retry:\n  backoff: linear\n", `unknown retry.backoff "linear"`},
		{"bad status code", "retry:\n  statuscodes: [42]\n", "invalid retry status code 42"},
		{"negative delay", "retry:\n  delay: -1s\n", "retry delays must not be negative"},
		{"negative timeout", "timeout: -1s\n", "timeout must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadConfig(writeConfig(t, tt.content), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestFileConfig_Options(t *testing.T) {
	t.Parallel()

	cfg := &FileConfig{
		Timeout: 3 * time.Second,
		Headers: map[string]string{"X-Team": "core"},
		Retry: RetryFileConfig{
			Count:       2,
			Delay:       100 * time.Millisecond,
			Backoff:     BackoffExponential,
			MaxDelay:    250 * time.Millisecond,
			StatusCodes: []int{503},
		},
	}

	opts := newClientOptions()
	for _, o := range cfg.Options() {
		o(opts)
	}

	assert.True(t, opts.hasRetries)
	assert.Equal(t, 2, opts.retries)
	assert.Equal(t, 3*time.Second, opts.timeout)
	assert.Equal(t, "core", opts.requestHeaders.Get("X-Team"))
	assert.Equal(t, 100*time.Millisecond, opts.retryDelay(0))
	assert.Equal(t, 200*time.Millisecond, opts.retryDelay(1))
	assert.Equal(t, 250*time.Millisecond, opts.retryDelay(2))
	assert.True(t, opts.retryOn(0, statusFailure(http.StatusServiceUnavailable)))
	assert.False(t, opts.retryOn(0, statusFailure(http.StatusInternalServerError)))
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "core", r.Header.Get("X-Team"), "expected configured header")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := &FileConfig{
		BaseURL: server.URL,
		Headers: map[string]string{"X-Team": "core"},
		Retry:   RetryFileConfig{Count: 1, StatusCodes: []int{503}},
	}

	client := NewFromConfig(cfg)

	out := client.Get(context.Background(), QueryRequest{Path: "/"})
	require.True(t, out.OK(), "unexpected error: %v", out.Err())
	assert.Equal(t, int32(2), calls.Load())
}
