package engine

import (
	"context"

	"github.com/steiner385/mcp-git-issue-priority/internal/priority"
	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const toolSyncBacklogLabels = "sync_backlog_labels"

// SyncBacklogLabels ensures the managed label families exist, then either
// reports issues missing a priority/type/status label (mode=report) or
// applies the configured defaults to them (mode=update).
func (e *Engine) SyncBacklogLabels(ctx context.Context, args SyncBacklogLabelsArgs) (resp SyncBacklogLabelsResponse, opErr error) {
	start := now()
	owner, repo, err := e.resolveRepository(args.Repository)
	if err != nil {
		return resp, err
	}
	defer func() { e.auditLog(toolSyncBacklogLabels, owner+"/"+repo, nil, "", outcomeFor(opErr), start, opErr, nil) }()

	if err := e.validator().Struct(args); err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "invalid arguments: %v", err)
	}

	if err := e.Client.EnsureLabelsExist(ctx, owner, repo); err != nil {
		return resp, types.NewOpError(types.CodeGitHubAPIError, "ensure labels exist: %v", err)
	}

	issues, err := e.Client.ListOpenIssues(ctx, owner, repo)
	if err != nil {
		return resp, types.NewOpError(types.CodeGitHubAPIError, "list open issues: %v", err)
	}

	resp.Mode = args.Mode

	defaultPriority := priority.NormalizePriorityArg(e.DefaultPriority)
	if defaultPriority == types.PriorityNone {
		defaultPriority = types.PriorityMedium
	}
	defaultType := e.DefaultType
	if defaultType == "" {
		defaultType = string(types.TypeFeature)
	}

	for _, issue := range issues {
		missingPrio := priority.ClassifyPriority(issue.Labels) == types.PriorityNone
		missingType := priority.ClassifyType(issue.Labels) == types.TypeNone
		missingStatus := priority.ClassifyStatus(issue.Labels) == types.StatusNone

		if !missingPrio && !missingType && !missingStatus {
			continue
		}

		resp.Missing = append(resp.Missing, MissingLabelEntry{
			IssueNumber:   issue.Number,
			MissingPrio:   missingPrio,
			MissingType:   missingType,
			MissingStatus: missingStatus,
		})

		if args.Mode != "update" {
			continue
		}

		var toAdd []string
		if missingPrio {
			toAdd = append(toAdd, priority.CanonicalPriorityLabel(defaultPriority))
		}
		if missingType {
			toAdd = append(toAdd, "type:"+defaultType)
		}
		if missingStatus {
			toAdd = append(toAdd, "status:backlog")
		}
		if err := e.Client.AddLabels(ctx, owner, repo, issue.Number, toAdd); err != nil {
			return resp, types.NewOpError(types.CodeGitHubAPIError, "add default labels to issue %d: %v", issue.Number, err)
		}
		resp.Updated = append(resp.Updated, issue.Number)
	}

	return resp, nil
}
