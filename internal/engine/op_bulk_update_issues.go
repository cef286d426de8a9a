package engine

import (
	"context"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const toolBulkUpdateIssues = "bulk_update_issues"

// BulkUpdateIssues applies label and state changes to 1-50 issues
// sequentially, recording per-item failures and continuing rather than
// aborting the whole batch (spec §4.7, §7 partial-failure policy).
func (e *Engine) BulkUpdateIssues(ctx context.Context, args BulkUpdateIssuesArgs) (resp BulkUpdateIssuesResponse, opErr error) {
	start := now()
	owner, repo, err := e.resolveRepository(args.Repository)
	if err != nil {
		return resp, err
	}
	defer func() {
		e.auditLog(toolBulkUpdateIssues, owner+"/"+repo, nil, "", outcomeFor(opErr), start, opErr,
			map[string]any{"updated": len(resp.Updated), "failed": len(resp.Failed)})
	}()

	if err := e.validator().Struct(args); err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "invalid arguments: %v", err)
	}

	resp.Total = len(args.IssueNumbers)
	for _, number := range args.IssueNumbers {
		if itemErr := e.applyBulkUpdate(ctx, owner, repo, number, args); itemErr != nil {
			resp.Failed = append(resp.Failed, BulkUpdateFailure{IssueNumber: number, Error: itemErr.Error()})
			continue
		}
		resp.Updated = append(resp.Updated, number)
	}

	return resp, nil
}

func (e *Engine) applyBulkUpdate(ctx context.Context, owner, repo string, number int, args BulkUpdateIssuesArgs) error {
	if len(args.AddLabels) > 0 {
		if err := e.Client.AddLabels(ctx, owner, repo, number, args.AddLabels); err != nil {
			return err
		}
	}
	for _, label := range args.RemoveLabels {
		if err := e.Client.RemoveLabel(ctx, owner, repo, number, label); err != nil {
			return err
		}
	}
	if args.State != "" {
		if err := e.Client.SetIssueState(ctx, owner, repo, number, types.IssueState(args.State)); err != nil {
			return err
		}
	}
	return nil
}
