package engine

import (
	"context"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const toolSelectNextIssue = "select_next_issue"

// SelectNextIssue walks the scored candidate list in priority order,
// attempting a lock acquire on each until one succeeds, then flips the
// advisory label, creates a WorkflowState at phase selection, and logs.
func (e *Engine) SelectNextIssue(ctx context.Context, args SelectNextIssueArgs) (resp SelectNextIssueResponse, opErr error) {
	start := now()
	owner, repo, err := e.resolveRepository(args.Repository)
	if err != nil {
		return resp, err
	}
	var selected *int
	defer func() {
		e.auditLog(toolSelectNextIssue, owner+"/"+repo, selected, types.PhaseSelection, outcomeFor(opErr), start, opErr, nil)
	}()

	scored, err := e.gatherCandidates(ctx, owner, repo, args.IncludeTypes, args.ExcludeTypes)
	if err != nil {
		return resp, err
	}
	if len(scored) == 0 {
		return resp, types.NewOpError(types.CodeNoIssuesAvailable, "no eligible issues in %s/%s", owner, repo)
	}

	allLocked := true
	for _, s := range scored {
		lock, err := e.Locks.Acquire(owner, repo, s.Issue.Number, e.SessionID, e.PID)
		if err != nil {
			if opErr := types.AsOpError(err); opErr != nil && opErr.Code == types.CodeLockHeld {
				continue
			}
			return resp, err
		}

		if err := e.Client.ReplaceLabel(ctx, owner, repo, s.Issue.Number, "status:backlog", "status:in-progress"); err != nil {
			_ = e.Locks.Release(owner, repo, s.Issue.Number, e.SessionID)
			return resp, types.NewOpError(types.CodeGitHubAPIError, "flip status label: %v", err)
		}

		state := types.WorkflowState{
			Owner:       owner,
			Repo:        repo,
			IssueNumber: s.Issue.Number,
			Phase:       types.PhaseSelection,
			SessionID:   e.SessionID,
			CreatedAt:   now(),
			UpdatedAt:   now(),
		}
		if err := e.Workflows.Create(state); err != nil {
			return resp, err
		}

		selected = intPtr(s.Issue.Number)
		resp.Issue = s.Issue
		resp.Score = s.Score
		resp.Lock = lock
		return resp, nil
	}

	if allLocked {
		return resp, types.NewOpError(types.CodeAllIssuesLocked, "every candidate in %s/%s is locked", owner, repo)
	}
	return resp, types.NewOpError(types.CodeNoIssuesAvailable, "no eligible issues in %s/%s", owner, repo)
}
