package engine

import (
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectNextIssue_PicksHighestScoreAndCreatesLockAndWorkflow(t *testing.T) {
	e, mux := newTestEngine(t)
	defer fixedNow(t, time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))()

	mux.HandleFunc("/api/v3/repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `[
			{"number":42,"title":"forty two","state":"open","created_at":"2026-07-25T00:00:00Z","labels":[{"name":"priority:high"}]},
			{"number":41,"title":"forty one","state":"open","created_at":"2026-07-23T00:00:00Z","labels":[{"name":"priority:high"}]}
		]`)
	})
	mux.HandleFunc("/api/v3/repos/o/r/issues/41/labels", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	mux.HandleFunc("/api/v3/repos/o/r/issues/41/labels/status%3Abacklog", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	resp, err := e.SelectNextIssue(t.Context(), SelectNextIssueArgs{Repository: "o/r"})
	require.NoError(t, err)
	assert.Equal(t, 41, resp.Issue.Number)
	assert.InDelta(t, 107, resp.Score.TotalScore, 0.001)

	lock, held, lockErr := e.Locks.Get("o", "r", 41)
	require.NoError(t, lockErr)
	assert.True(t, held)
	assert.Equal(t, "session-a", lock.SessionID)

	state, stateErr := e.Workflows.Get("o", "r", 41)
	require.NoError(t, stateErr)
	assert.Equal(t, "selection", string(state.Phase))
}

func TestSelectNextIssue_AllLockedReturnsAllIssuesLocked(t *testing.T) {
	e, mux := newTestEngine(t)

	mux.HandleFunc("/api/v3/repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"number":42,"title":"x","state":"open","created_at":"2026-07-25T00:00:00Z","labels":[{"name":"priority:high"}]}]`)
	})

	_, err := e.Locks.Acquire("o", "r", 42, "other-session", os.Getpid())
	require.NoError(t, err)

	_, err = e.SelectNextIssue(t.Context(), SelectNextIssueArgs{Repository: "o/r"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ALL_ISSUES_LOCKED")
}

func TestSelectNextIssue_NoIssuesAvailable(t *testing.T) {
	e, mux := newTestEngine(t)
	mux.HandleFunc("/api/v3/repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	_, err := e.SelectNextIssue(t.Context(), SelectNextIssueArgs{Repository: "o/r"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NO_ISSUES_AVAILABLE")
}
