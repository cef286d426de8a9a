package engine

import (
	"context"
	"fmt"

	"github.com/steiner385/mcp-git-issue-priority/internal/priority"
	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const toolImplementBatch = "implement_batch"

const implementInstructions = "Implement this issue, open a pull request, then call batch_continue with the batch id and the PR number."

// ImplementBatch lists, filters, scores, optionally restricts by a
// priority ceiling, takes the top count issues, creates a BatchState, and
// returns the first issue for the caller to implement.
func (e *Engine) ImplementBatch(ctx context.Context, args ImplementBatchArgs) (resp ImplementBatchResponse, opErr error) {
	start := now()
	owner, repo, err := e.resolveRepository(args.Repository)
	if err != nil {
		return resp, err
	}
	defer func() {
		e.auditLog(toolImplementBatch, owner+"/"+repo, nil, "", outcomeFor(opErr), start, opErr, map[string]any{"action": resp.Action})
	}()

	if err := e.validator().Struct(args); err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "invalid arguments: %v", err)
	}

	scored, err := e.gatherCandidates(ctx, owner, repo, nil, nil)
	if err != nil {
		return resp, err
	}

	scored = filterByPriorityCeiling(scored, args.MaxPriority)
	if len(scored) > args.Count {
		scored = scored[:args.Count]
	}

	if len(scored) == 0 {
		resp.Action = "empty"
		return resp, nil
	}

	queue := make([]int, 0, len(scored))
	byNumber := map[int]types.Issue{}
	for _, s := range scored {
		queue = append(queue, s.Issue.Number)
		byNumber[s.Issue.Number] = s.Issue
	}

	batch, err := e.Batches.Create(fmt.Sprintf("%s/%s", owner, repo), queue)
	if err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "create batch: %v", err)
	}

	firstNumber, ok, err := e.Batches.StartNext(batch.ID)
	if err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "start first batch issue: %v", err)
	}
	if !ok {
		resp.Action = "empty"
		return resp, nil
	}

	issue := byNumber[firstNumber]
	resp.Action = "implement"
	resp.BatchID = batch.ID
	resp.Issue = &issue
	resp.Instructions = implementInstructions
	return resp, nil
}

// filterByPriorityCeiling keeps only candidates at or above the given
// priority class (e.g. maxPriority "high" keeps critical and high), per
// implement_batch's "≤P1 means P0 OR P1" semantics translated to the
// canonical family where lower index is higher priority.
func filterByPriorityCeiling(scored []priority.Scored, maxPriority string) []priority.Scored {
	if maxPriority == "" {
		return scored
	}
	ceiling := priority.NormalizePriorityArg(maxPriority)
	if ceiling == types.PriorityNone {
		return scored
	}
	ceilingRank := priorityRank(ceiling)

	out := scored[:0:0]
	for _, s := range scored {
		class := priority.ClassifyPriority(s.Issue.Labels)
		if priorityRank(class) <= ceilingRank {
			out = append(out, s)
		}
	}
	return out
}

// priorityRank orders canonical priority classes from most (0) to least
// severe, matching the legacy P0..P3 numbering implement_batch's
// maxPriority argument is phrased in.
func priorityRank(class types.PriorityClass) int {
	switch class {
	case types.PriorityCritical:
		return 0
	case types.PriorityHigh:
		return 1
	case types.PriorityMedium:
		return 2
	case types.PriorityLow:
		return 3
	default:
		return 4
	}
}
