package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	logger.Debugf("debug %d", 1)
	logger.Warnf("warn %s", "two")
	logger.Errorf("error %v", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], `"level":"debug"`)
	assert.Contains(t, lines[0], `"message":"debug 1"`)
	assert.Contains(t, lines[1], `"level":"warn"`)
	assert.Contains(t, lines[2], `"level":"error"`)
	assert.Contains(t, lines[2], `"component":"http_client"`)
}

func TestClient_LogsRetriesAndFinalFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	var buf bytes.Buffer
	client := New(server.URL,
		WithRetries(1),
		WithRetryDelay(ConstantDelay(0)),
		WithRequestLogger(NewZerologLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))),
	)

	out := client.Get(context.Background(), QueryRequest{Path: "/flaky"})
	require.False(t, out.OK())

	logs := buf.String()
	assert.Contains(t, logs, "attempt 1 failed, retrying")
	assert.Contains(t, logs, "failed after 2 attempt(s)")
	assert.NotContains(t, logs, `"level":"debug"`)
}
