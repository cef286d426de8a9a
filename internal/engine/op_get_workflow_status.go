package engine

import (
	"context"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const toolGetWorkflowStatus = "get_workflow_status"

// GetWorkflowStatus returns a single issue's workflow record if an issue
// number is supplied, otherwise every lock held by the current session
// joined with its WorkflowState.
func (e *Engine) GetWorkflowStatus(ctx context.Context, args GetWorkflowStatusArgs) (resp GetWorkflowStatusResponse, opErr error) {
	start := now()
	owner, repo, err := e.resolveRepository(args.Repository)
	if err != nil {
		return resp, err
	}
	defer func() {
		var issueNumber *int
		if args.IssueNumber != 0 {
			issueNumber = &args.IssueNumber
		}
		e.auditLog(toolGetWorkflowStatus, owner+"/"+repo, issueNumber, "", outcomeFor(opErr), start, opErr, nil)
	}()

	if args.IssueNumber != 0 {
		state, err := e.Workflows.Get(owner, repo, args.IssueNumber)
		if err != nil {
			return resp, err
		}
		resp.State = &state
		return resp, nil
	}

	locks, err := e.Locks.List()
	if err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "list locks: %v", err)
	}

	var entries []WorkflowStatusEntry
	for _, entry := range locks {
		if entry.Lock.SessionID != e.SessionID || entry.Lock.Owner != owner || entry.Lock.Repo != repo {
			continue
		}
		state, err := e.Workflows.Get(owner, repo, entry.Lock.IssueNumber)
		if err != nil {
			continue
		}
		entries = append(entries, WorkflowStatusEntry{Lock: entry.Lock, State: state})
	}
	resp.Entries = entries
	return resp, nil
}
