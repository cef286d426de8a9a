package engine

import (
	"context"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const toolGetPRStatus = "get_pr_status"

// GetPRStatus aggregates PR state, check-run conclusions, and review
// states per spec §4.2's mapping rules.
func (e *Engine) GetPRStatus(ctx context.Context, args GetPRStatusArgs) (resp GetPRStatusResponse, opErr error) {
	start := now()
	owner, repo, err := e.resolveRepository(args.Repository)
	if err != nil {
		return resp, err
	}
	defer func() { e.auditLog(toolGetPRStatus, owner+"/"+repo, nil, "", outcomeFor(opErr), start, opErr, nil) }()

	if err := e.validator().Struct(args); err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "invalid arguments: %v", err)
	}

	status, err := e.Client.GetPRStatus(ctx, owner, repo, args.PRNumber)
	if err != nil {
		return resp, types.NewOpError(types.CodeGitHubAPIError, "get pr status: %v", err)
	}

	resp.Status = PRStatusView{
		Number:    status.Number,
		State:     string(status.State),
		Checks:    string(status.Checks),
		Review:    string(status.Review),
		Reviewers: status.Reviewers,
		URL:       status.URL,
	}
	return resp, nil
}
