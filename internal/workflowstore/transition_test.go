package workflowstore

import (
	"testing"
	"time"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freshState() *types.WorkflowState {
	return &types.WorkflowState{Owner: "o", Repo: "r", IssueNumber: 1, Phase: types.PhaseSelection}
}

func TestAdvance_HappyPathChain(t *testing.T) {
	state := freshState()
	now := time.Now()

	for _, to := range []types.Phase{types.PhaseResearch, types.PhaseBranch, types.PhaseImplementation, types.PhaseTesting} {
		_, err := Advance(state, AdvanceRequest{TargetPhase: to, Trigger: "test"}, now)
		require.NoError(t, err)
	}
	assert.Equal(t, types.PhaseTesting, state.Phase)
	assert.Len(t, state.History, 4)
}

func TestAdvance_GateBlocksPRWithoutTestsOrJustification(t *testing.T) {
	state := freshState()
	now := time.Now()
	for _, to := range []types.Phase{types.PhaseResearch, types.PhaseBranch, types.PhaseImplementation, types.PhaseTesting} {
		_, err := Advance(state, AdvanceRequest{TargetPhase: to}, now)
		require.NoError(t, err)
	}

	_, err := Advance(state, AdvanceRequest{TargetPhase: types.PhasePR}, now)
	require.Error(t, err)
	assert.Equal(t, types.CodeTestsRequired, types.AsOpError(err).Code)
	assert.Equal(t, types.PhaseTesting, state.Phase, "state must not mutate on gate failure")
}

func TestAdvance_GatePassesWithTestsPassed(t *testing.T) {
	state := freshState()
	now := time.Now()
	for _, to := range []types.Phase{types.PhaseResearch, types.PhaseBranch, types.PhaseImplementation, types.PhaseTesting} {
		_, err := Advance(state, AdvanceRequest{TargetPhase: to}, now)
		require.NoError(t, err)
	}
	passed := true
	_, err := Advance(state, AdvanceRequest{TargetPhase: types.PhaseCommit, TestsPassed: &passed}, now)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseCommit, state.Phase)
}

func TestAdvance_ForwardSkipRequiresJustificationAndSynthesizesOnePerPhase(t *testing.T) {
	state := freshState()
	now := time.Now()

	_, err := Advance(state, AdvanceRequest{TargetPhase: types.PhaseImplementation}, now)
	require.Error(t, err)
	assert.Equal(t, types.CodeSkipJustificationNeeded, types.AsOpError(err).Code)

	_, err = Advance(state, AdvanceRequest{TargetPhase: types.PhaseImplementation, SkipJustification: "trivial typo fix", SessionID: "s1"}, now)
	require.NoError(t, err)
	require.Len(t, state.Skips, 2) // research, branch skipped
	assert.Equal(t, types.PhaseResearch, state.Skips[0].SkippedPhase)
	assert.Equal(t, types.PhaseBranch, state.Skips[1].SkippedPhase)
}

func TestAdvance_AbandonedAlwaysReachable(t *testing.T) {
	for _, from := range []types.Phase{types.PhaseSelection, types.PhaseResearch, types.PhaseBranch, types.PhaseImplementation, types.PhaseTesting, types.PhaseCommit, types.PhasePR, types.PhaseReview} {
		state := &types.WorkflowState{Phase: from}
		_, err := Advance(state, AdvanceRequest{TargetPhase: types.PhaseAbandoned}, time.Now())
		require.NoError(t, err, "from %s", from)
	}
}

func TestAdvance_InvalidTransitionRejected(t *testing.T) {
	state := freshState()
	_, err := Advance(state, AdvanceRequest{TargetPhase: types.PhaseMerged}, time.Now())
	require.Error(t, err)
	// selection -> merged is a forward skip (far later in order) requiring
	// justification, not a bare INVALID_PHASE_TRANSITION.
	assert.Equal(t, types.CodeSkipJustificationNeeded, types.AsOpError(err).Code)
}

func TestAdvance_BackwardTransitionRejected(t *testing.T) {
	state := &types.WorkflowState{Phase: types.PhaseTesting}
	_, err := Advance(state, AdvanceRequest{TargetPhase: types.PhaseResearch}, time.Now())
	require.Error(t, err)
	assert.Equal(t, types.CodeInvalidPhaseTransition, types.AsOpError(err).Code)
}

func TestAdvance_TerminalPhaseAllowsNothing(t *testing.T) {
	state := &types.WorkflowState{Phase: types.PhaseMerged}
	_, err := Advance(state, AdvanceRequest{TargetPhase: types.PhaseAbandoned}, time.Now())
	require.Error(t, err)
	assert.Equal(t, types.CodeInvalidPhaseTransition, types.AsOpError(err).Code)
}
