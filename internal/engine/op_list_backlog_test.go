package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBacklog_AnnotatesLockedAndBlockedEntries(t *testing.T) {
	e, mux := newTestEngine(t)
	defer fixedNow(t, time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC))()

	mux.HandleFunc("/api/v3/repos/o/r/issues", jsonHandler(`[
		{"number":41,"title":"a","state":"open","created_at":"2026-07-25T00:00:00Z","labels":[{"name":"priority:high"}]},
		{"number":42,"title":"b","state":"open","created_at":"2026-07-20T00:00:00Z","labels":[{"name":"priority:medium"}]}
	]`))

	_, err := e.Locks.Acquire("o", "r", 42, "other-session", 999)
	require.NoError(t, err)

	resp, err := e.ListBacklog(t.Context(), ListBacklogArgs{Repository: "o/r"})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, 2, resp.Total)

	var entry42 *BacklogEntry
	for i := range resp.Entries {
		if resp.Entries[i].Issue.Number == 42 {
			entry42 = &resp.Entries[i]
		}
	}
	require.NotNil(t, entry42)
	assert.True(t, entry42.IsLocked)
	assert.Equal(t, "other-session", entry42.LockedBy)
}

func TestListBacklog_RespectsLimit(t *testing.T) {
	e, mux := newTestEngine(t)
	mux.HandleFunc("/api/v3/repos/o/r/issues", jsonHandler(`[
		{"number":1,"title":"a","state":"open","created_at":"2026-07-01T00:00:00Z","labels":[]},
		{"number":2,"title":"b","state":"open","created_at":"2026-07-02T00:00:00Z","labels":[]},
		{"number":3,"title":"c","state":"open","created_at":"2026-07-03T00:00:00Z","labels":[]}
	]`))

	resp, err := e.ListBacklog(t.Context(), ListBacklogArgs{Repository: "o/r", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 2)
	assert.Equal(t, 3, resp.Total)
}

func TestListBacklog_RejectsLimitOutOfRange(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.ListBacklog(t.Context(), ListBacklogArgs{Repository: "o/r", Limit: 500})
	require.Error(t, err)
}
