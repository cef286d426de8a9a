package engine

import (
	"context"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const toolListBacklog = "list_backlog"

const (
	defaultBacklogLimit = 20
	maxBacklogLimit     = 100
)

// ListBacklog is read-only: it lists, scores, and annotates the backlog
// with lock and blocked-by state, returning the top N candidates.
func (e *Engine) ListBacklog(ctx context.Context, args ListBacklogArgs) (resp ListBacklogResponse, opErr error) {
	start := now()
	owner, repo, err := e.resolveRepository(args.Repository)
	if err != nil {
		return resp, err
	}
	defer func() {
		e.auditLog(toolListBacklog, owner+"/"+repo, nil, "", outcomeFor(opErr), start, opErr, map[string]any{"returned": len(resp.Entries)})
	}()

	if err := e.validator().Struct(args); err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "invalid arguments: %v", err)
	}

	limit := args.Limit
	if limit == 0 {
		limit = defaultBacklogLimit
	}
	if limit > maxBacklogLimit {
		limit = maxBacklogLimit
	}

	scored, err := e.gatherCandidates(ctx, owner, repo, args.IncludeTypes, args.ExcludeTypes)
	if err != nil {
		return resp, err
	}

	entries := make([]BacklogEntry, 0, len(scored))
	for _, s := range scored {
		if len(entries) >= limit {
			break
		}
		entry := BacklogEntry{Issue: s.Issue, Score: s.Score}
		if lock, held, _ := e.Locks.Get(owner, repo, s.Issue.Number); held {
			entry.IsLocked = true
			entry.LockedBy = lock.SessionID
		}
		if s.Issue.ParentNumber != 0 && s.Issue.ParentOpen {
			entry.BlockedBy = s.Issue.ParentNumber
		}
		entries = append(entries, entry)
	}

	resp.Entries = entries
	resp.Total = len(scored)
	return resp, nil
}
