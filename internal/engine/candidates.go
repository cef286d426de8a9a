package engine

import (
	"context"

	"github.com/steiner385/mcp-git-issue-priority/internal/priority"
	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

// gatherCandidates lists open issues, resolves each one's advisory parent,
// applies the filter pipeline, scores, and sorts descending. This is the
// shared first half of list_backlog, select_next_issue, and
// implement_batch (spec §2's "pick next issue" data flow).
func (e *Engine) gatherCandidates(ctx context.Context, owner, repo string, includeTypes, excludeTypes []string) ([]priority.Scored, error) {
	issues, err := e.Client.ListOpenIssues(ctx, owner, repo)
	if err != nil {
		return nil, types.NewOpError(types.CodeGitHubAPIError, "list open issues: %v", err)
	}

	for i := range issues {
		parentNumber, parentOpen := e.Client.GetIssueParent(ctx, owner, repo, issues[i].Number)
		issues[i].ParentNumber = parentNumber
		issues[i].ParentOpen = parentOpen
	}

	filters := priority.Filters{
		IncludeTypes: toTypeClasses(includeTypes),
		ExcludeTypes: toTypeClasses(excludeTypes),
	}
	filtered := priority.Apply(issues, filters)

	scored := priority.ScoreAll(filtered, now())
	return priority.SortDescending(scored), nil
}

func toTypeClasses(raw []string) []types.TypeClass {
	if len(raw) == 0 {
		return nil
	}
	out := make([]types.TypeClass, 0, len(raw))
	for _, r := range raw {
		out = append(out, types.TypeClass(r))
	}
	return out
}
