package engine

import (
	"context"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const toolReleaseLock = "release_lock"

// ReleaseLock requires an existing lock held by the caller's session,
// deletes the lock and WorkflowState, and adjusts remote labels/state per
// the release reason (spec §4.7).
func (e *Engine) ReleaseLock(ctx context.Context, args ReleaseLockArgs) (resp ReleaseLockResponse, opErr error) {
	start := now()
	owner, repo, err := e.resolveRepository(args.Repository)
	if err != nil {
		return resp, err
	}
	defer func() {
		e.auditLog(toolReleaseLock, owner+"/"+repo, &args.IssueNumber, "", outcomeFor(opErr), start, opErr, map[string]any{"reason": args.Reason})
	}()

	if err := e.validator().Struct(args); err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "invalid arguments: %v", err)
	}

	lock, held, err := e.Locks.Get(owner, repo, args.IssueNumber)
	if err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "read lock: %v", err)
	}
	if !held {
		return resp, types.NewOpError(types.CodeNotLocked, "issue %d is not locked", args.IssueNumber)
	}

	if err := e.Locks.Release(owner, repo, args.IssueNumber, e.SessionID); err != nil {
		return resp, err
	}
	if err := e.Workflows.Delete(owner, repo, args.IssueNumber); err != nil {
		return resp, err
	}

	switch args.Reason {
	case "abandoned":
		if err := e.Client.ReplaceLabel(ctx, owner, repo, args.IssueNumber, "status:in-progress", "status:backlog"); err != nil {
			return resp, types.NewOpError(types.CodeGitHubAPIError, "flip status label: %v", err)
		}
	case "completed", "merged":
		if err := e.Client.RemoveLabel(ctx, owner, repo, args.IssueNumber, "status:in-progress"); err != nil {
			return resp, types.NewOpError(types.CodeGitHubAPIError, "remove status label: %v", err)
		}
		if err := e.Client.RemoveLabel(ctx, owner, repo, args.IssueNumber, "status:in-review"); err != nil {
			return resp, types.NewOpError(types.CodeGitHubAPIError, "remove status label: %v", err)
		}
		if args.Reason == "merged" {
			if err := e.Client.SetIssueState(ctx, owner, repo, args.IssueNumber, types.IssueClosed); err != nil {
				return resp, types.NewOpError(types.CodeGitHubAPIError, "close issue: %v", err)
			}
		}
	}

	resp.LockDurationSeconds = now().Sub(lock.AcquiredAt).Seconds()
	return resp, nil
}
