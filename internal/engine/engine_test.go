package engine

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/steiner385/mcp-git-issue-priority/internal/audit"
	"github.com/steiner385/mcp-git-issue-priority/internal/batchstore"
	"github.com/steiner385/mcp-git-issue-priority/internal/ghclient"
	"github.com/steiner385/mcp-git-issue-priority/internal/lockstore"
	"github.com/steiner385/mcp-git-issue-priority/internal/workflowstore"
)

// newTestEngine builds an Engine rooted at t.TempDir() with its GitHub
// client pointed at an httptest mux, mirroring ghclient's own test
// harness so operation tests never reach the network.
func newTestEngine(t *testing.T) (*Engine, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := ghclient.NewWithHTTPClient(server.Client(), server.URL+"/")
	require.NoError(t, err)
	client = client.WithRetryConfig(ghclient.RetryConfig{MaxRetries: 0})

	dir := t.TempDir()
	e := &Engine{
		Client:          client,
		Locks:           lockstore.New(dir),
		Workflows:       workflowstore.New(dir),
		Batches:         batchstore.New(dir),
		Audit:           audit.New(dir),
		SessionID:       "session-a",
		PID:             1,
		DefaultRepoFull: "o/r",
		DefaultPriority: "medium",
		DefaultType:     "feature",
	}
	return e, mux
}

func fixedNow(t *testing.T, ts time.Time) func() {
	t.Helper()
	prev := now
	now = func() time.Time { return ts }
	return func() { now = prev }
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}
}
