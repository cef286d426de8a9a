// Package workflowstore implements C4: the per-issue phase state machine,
// forward-skip synthesis, the commit/pr gate, and whole-file-replace
// persistence. Write-temp-then-rename follows the atomic-write pattern in
// BeadsLog's internal/daemon/registry.go.
package workflowstore

import (
	"time"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

// allowedNext is the direct transition relation from spec §4.4.
var allowedNext = map[types.Phase][]types.Phase{
	types.PhaseSelection:      {types.PhaseResearch, types.PhaseAbandoned},
	types.PhaseResearch:       {types.PhaseBranch, types.PhaseAbandoned},
	types.PhaseBranch:         {types.PhaseImplementation, types.PhaseAbandoned},
	types.PhaseImplementation: {types.PhaseTesting, types.PhaseAbandoned},
	types.PhaseTesting:        {types.PhaseCommit, types.PhaseAbandoned},
	types.PhaseCommit:         {types.PhasePR, types.PhaseAbandoned},
	types.PhasePR:             {types.PhaseReview, types.PhaseAbandoned},
	types.PhaseReview:         {types.PhaseMerged, types.PhaseAbandoned},
	types.PhaseMerged:         {},
	types.PhaseAbandoned:      {},
}

func isDirectlyAllowed(from, to types.Phase) bool {
	for _, n := range allowedNext[from] {
		if n == to {
			return true
		}
	}
	return false
}

// AdvanceRequest is the input to Advance.
type AdvanceRequest struct {
	TargetPhase       types.Phase
	TestsPassed       *bool
	SkipJustification string
	SessionID         string
	Trigger           string
}

// Advance applies spec §4.4's advance contract to state in place and
// returns the transition record appended, or a typed error leaving state
// untouched.
func Advance(state *types.WorkflowState, req AdvanceRequest, now time.Time) (types.Transition, error) {
	from := state.Phase
	to := req.TargetPhase

	direct := isDirectlyAllowed(from, to)
	fromIdx := types.OrderIndex(from)
	toIdx := types.OrderIndex(to)
	isForwardSkip := !direct && to != types.PhaseAbandoned && fromIdx >= 0 && toIdx > fromIdx+1

	if !direct && !isForwardSkip {
		return types.Transition{}, types.NewOpError(types.CodeInvalidPhaseTransition,
			"cannot transition from %s to %s", from, to)
	}

	if (to == types.PhaseCommit || to == types.PhasePR) && !gatePasses(req) {
		return types.Transition{}, types.NewOpError(types.CodeTestsRequired,
			"transition into %s requires testsPassed or a skipJustification", to)
	}

	if isForwardSkip && req.SkipJustification == "" {
		return types.Transition{}, types.NewOpError(types.CodeSkipJustificationNeeded,
			"forward skip from %s to %s requires a justification", from, to)
	}

	if isForwardSkip {
		for idx := fromIdx + 1; idx < toIdx; idx++ {
			state.Skips = append(state.Skips, types.SkipJustification{
				SkippedPhase: phaseAt(idx),
				Text:         req.SkipJustification,
				Timestamp:    now,
				SessionID:    req.SessionID,
			})
		}
	}

	transition := types.Transition{From: from, To: to, Timestamp: now, Trigger: req.Trigger}
	state.History = append(state.History, transition)
	state.Phase = to
	state.UpdatedAt = now
	if req.TestsPassed != nil {
		state.TestsPassed = req.TestsPassed
	}

	return transition, nil
}

func gatePasses(req AdvanceRequest) bool {
	if req.TestsPassed != nil && *req.TestsPassed {
		return true
	}
	return req.SkipJustification != ""
}

func phaseAt(idx int) types.Phase {
	order := []types.Phase{
		types.PhaseSelection, types.PhaseResearch, types.PhaseBranch,
		types.PhaseImplementation, types.PhaseTesting, types.PhaseCommit,
		types.PhasePR, types.PhaseReview, types.PhaseMerged,
	}
	if idx < 0 || idx >= len(order) {
		return ""
	}
	return order[idx]
}
