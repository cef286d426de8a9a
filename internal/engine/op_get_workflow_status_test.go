package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

func seedWorkflow(t *testing.T, e *Engine, owner, repo, sessionID string, number int) {
	t.Helper()
	require.NoError(t, e.Workflows.Create(types.WorkflowState{
		Owner: owner, Repo: repo, IssueNumber: number,
		Phase: types.PhaseSelection, SessionID: sessionID,
		CreatedAt: now(), UpdatedAt: now(),
	}))
}

func TestGetWorkflowStatus_ReturnsSingleStateForIssueNumber(t *testing.T) {
	e, _ := newTestEngine(t)
	seedWorkflow(t, e, "o", "r", e.SessionID, 41)

	resp, err := e.GetWorkflowStatus(t.Context(), GetWorkflowStatusArgs{Repository: "o/r", IssueNumber: 41})
	require.NoError(t, err)
	require.NotNil(t, resp.State)
	assert.Equal(t, types.PhaseSelection, resp.State.Phase)
}

func TestGetWorkflowStatus_ListsOnlyCurrentSessionLocks(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Locks.Acquire("o", "r", 41, e.SessionID, e.PID)
	require.NoError(t, err)
	seedWorkflow(t, e, "o", "r", e.SessionID, 41)

	_, err = e.Locks.Acquire("o", "r", 42, "other-session", 999)
	require.NoError(t, err)
	seedWorkflow(t, e, "o", "r", "other-session", 42)

	resp, err := e.GetWorkflowStatus(t.Context(), GetWorkflowStatusArgs{Repository: "o/r"})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, 41, resp.Entries[0].Lock.IssueNumber)
}
