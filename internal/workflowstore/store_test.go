package workflowstore

import (
	"testing"
	"time"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveGetRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	state := types.WorkflowState{
		Owner: "o", Repo: "r", IssueNumber: 5, Phase: types.PhaseResearch,
		CreatedAt: time.Now().Truncate(time.Second),
		UpdatedAt: time.Now().Truncate(time.Second),
	}
	require.NoError(t, store.Create(state))

	got, err := store.Get("o", "r", 5)
	require.NoError(t, err)
	assert.Equal(t, state.Phase, got.Phase)
	assert.Equal(t, state.IssueNumber, got.IssueNumber)
}

func TestStore_GetMissingReturnsWorkflowNotFound(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Get("o", "r", 404)
	require.Error(t, err)
	assert.Equal(t, types.CodeWorkflowNotFound, types.AsOpError(err).Code)
}

func TestStore_DeleteOnAbsentIsNoOp(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Delete("o", "r", 1))
}

func TestStore_SaveOverwritesWholeFile(t *testing.T) {
	store := New(t.TempDir())
	state := types.WorkflowState{Owner: "o", Repo: "r", IssueNumber: 5, Phase: types.PhaseSelection}
	require.NoError(t, store.Create(state))

	state.Phase = types.PhaseResearch
	state.History = append(state.History, types.Transition{From: types.PhaseSelection, To: types.PhaseResearch})
	require.NoError(t, store.Save(state))

	got, err := store.Get("o", "r", 5)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseResearch, got.Phase)
	assert.Len(t, got.History, 1)
}
