package engine

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncBacklogLabels_ReportModeListsMissingWithoutMutating(t *testing.T) {
	e, mux := newTestEngine(t)

	mux.HandleFunc("/api/v3/repos/o/r/labels", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/api/v3/repos/o/r/issues", jsonHandler(`[
		{"number":1,"title":"a","state":"open","labels":[]},
		{"number":2,"title":"b","state":"open","labels":[{"name":"priority:high"},{"name":"type:bug"},{"name":"status:backlog"}]}
	]`))

	resp, err := e.SyncBacklogLabels(t.Context(), SyncBacklogLabelsArgs{Repository: "o/r", Mode: "report"})
	require.NoError(t, err)
	require.Len(t, resp.Missing, 1)
	assert.Equal(t, 1, resp.Missing[0].IssueNumber)
	assert.True(t, resp.Missing[0].MissingPrio)
	assert.Empty(t, resp.Updated)
}

func TestSyncBacklogLabels_UpdateModeAppliesDefaults(t *testing.T) {
	e, mux := newTestEngine(t)

	mux.HandleFunc("/api/v3/repos/o/r/labels", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/api/v3/repos/o/r/issues", jsonHandler(`[
		{"number":1,"title":"a","state":"open","labels":[]}
	]`))
	var appliedLabels []string
	mux.HandleFunc("/api/v3/repos/o/r/issues/1/labels", func(w http.ResponseWriter, r *http.Request) {
		appliedLabels = append(appliedLabels, r.Method)
		w.Write([]byte(`[]`))
	})

	resp, err := e.SyncBacklogLabels(t.Context(), SyncBacklogLabelsArgs{Repository: "o/r", Mode: "update"})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, resp.Updated)
	assert.NotEmpty(t, appliedLabels)
}

func TestSyncBacklogLabels_RejectsInvalidMode(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.SyncBacklogLabels(t.Context(), SyncBacklogLabelsArgs{Repository: "o/r", Mode: "bogus"})
	require.Error(t, err)
}
