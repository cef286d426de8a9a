package engine

import (
	"context"
	"fmt"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const toolForceClaim = "force_claim"

// ForceClaim requires the literal confirmation phrase, overwrites the
// lock, posts a takeover comment, creates a WorkflowState if absent, and
// logs at warn level including the previous holder's session id.
func (e *Engine) ForceClaim(ctx context.Context, args ForceClaimArgs) (resp ForceClaimResponse, opErr error) {
	start := now()
	owner, repo, err := e.resolveRepository(args.Repository)
	if err != nil {
		return resp, err
	}
	defer func() {
		e.auditLogAt(types.LevelWarn, toolForceClaim, owner+"/"+repo, &args.IssueNumber, "", outcomeFor(opErr), start, opErr,
			map[string]any{"previousSessionId": resp.PreviousSessionID})
	}()

	if args.Confirmation != forceClaimConfirmation {
		return resp, types.NewOpError(types.CodeInvalidConfirmation, "confirmation phrase does not match")
	}

	if err := e.validator().Struct(args); err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "invalid arguments: %v", err)
	}

	newLock, previous, err := e.Locks.ForceClaim(owner, repo, args.IssueNumber, e.SessionID, e.PID)
	if err != nil {
		return resp, err
	}
	resp.Lock = newLock
	resp.PreviousSessionID = previous.SessionID

	comment := fmt.Sprintf("Lock force-claimed by session %s.", e.SessionID)
	if previous.SessionID != "" {
		comment = fmt.Sprintf("Lock force-claimed by session %s, taking over from session %s.", e.SessionID, previous.SessionID)
	}
	if err := e.Client.AddComment(ctx, owner, repo, args.IssueNumber, comment); err != nil {
		return resp, types.NewOpError(types.CodeGitHubAPIError, "post takeover comment: %v", err)
	}

	if _, err := e.Workflows.Get(owner, repo, args.IssueNumber); err != nil {
		state := types.WorkflowState{
			Owner:       owner,
			Repo:        repo,
			IssueNumber: args.IssueNumber,
			Phase:       types.PhaseSelection,
			SessionID:   e.SessionID,
			CreatedAt:   now(),
			UpdatedAt:   now(),
		}
		if err := e.Workflows.Create(state); err != nil {
			return resp, err
		}
	}

	return resp, nil
}
