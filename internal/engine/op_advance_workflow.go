package engine

import (
	"context"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
	"github.com/steiner385/mcp-git-issue-priority/internal/workflowstore"
)

const toolAdvanceWorkflow = "advance_workflow"

// AdvanceWorkflow requires the caller to hold the issue's lock, applies
// the phase transition relation and gate, and performs the side effects
// for the branch and pr transitions (spec §4.4).
func (e *Engine) AdvanceWorkflow(ctx context.Context, args AdvanceWorkflowArgs) (resp AdvanceWorkflowResponse, opErr error) {
	start := now()
	owner, repo, err := e.resolveRepository(args.Repository)
	if err != nil {
		return resp, err
	}
	defer func() {
		e.auditLog(toolAdvanceWorkflow, owner+"/"+repo, &args.IssueNumber, types.Phase(args.TargetPhase), outcomeFor(opErr), start, opErr, nil)
	}()

	if err := e.validator().Struct(args); err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "invalid arguments: %v", err)
	}

	lock, held, err := e.Locks.Get(owner, repo, args.IssueNumber)
	if err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "read lock: %v", err)
	}
	if !held || lock.SessionID != e.SessionID {
		return resp, types.NewOpError(types.CodeNotLocked, "session does not hold the lock for issue %d", args.IssueNumber)
	}

	state, err := e.Workflows.Get(owner, repo, args.IssueNumber)
	if err != nil {
		return resp, err
	}

	resp.PreviousPhase = state.Phase

	req := workflowstore.AdvanceRequest{
		TargetPhase:       types.Phase(args.TargetPhase),
		TestsPassed:       args.TestsPassed,
		SkipJustification: args.SkipJustification,
		SessionID:         e.SessionID,
		Trigger:           "advance_workflow",
	}
	if _, err := workflowstore.Advance(&state, req, now()); err != nil {
		return resp, err
	}

	if state.Phase == types.PhaseBranch {
		branch := branchName(args.IssueNumber, issueTitleOrFallback(ctx, e, owner, repo, args.IssueNumber))
		if err := e.Client.CreateBranch(ctx, owner, repo, branch); err != nil {
			return resp, types.NewOpError(types.CodeGitHubAPIError, "create branch: %v", err)
		}
		state.BranchName = branch
		resp.BranchName = branch
	}

	if state.Phase == types.PhasePR {
		if state.BranchName == "" {
			return resp, types.NewOpError(types.CodeInternalError, "issue %d has no branch name recorded", args.IssueNumber)
		}
		base, err := e.Client.DefaultBranch(ctx, owner, repo)
		if err != nil {
			return resp, types.NewOpError(types.CodeGitHubAPIError, "resolve default branch: %v", err)
		}
		prNumber, prURL, err := e.Client.CreatePullRequest(ctx, owner, repo, state.BranchName, base, args.PRTitle, args.PRBody)
		if err != nil {
			return resp, types.NewOpError(types.CodeGitHubAPIError, "create pull request: %v", err)
		}
		state.PRNumber = intPtr(prNumber)
		resp.PRNumber = prNumber
		resp.PRURL = prURL

		if err := e.Client.ReplaceLabel(ctx, owner, repo, args.IssueNumber, "status:in-progress", "status:in-review"); err != nil {
			return resp, types.NewOpError(types.CodeGitHubAPIError, "flip status label: %v", err)
		}
	}

	if err := e.Workflows.Save(state); err != nil {
		return resp, err
	}

	resp.CurrentPhase = state.Phase
	return resp, nil
}

// issueTitleOrFallback fetches the issue's title for slug computation,
// degrading to a numeric placeholder if the fetch fails — branch naming
// is not worth failing the whole transition over.
func issueTitleOrFallback(ctx context.Context, e *Engine, owner, repo string, number int) string {
	issue, err := e.Client.GetIssue(ctx, owner, repo, number)
	if err != nil {
		return "issue"
	}
	return issue.Title
}
