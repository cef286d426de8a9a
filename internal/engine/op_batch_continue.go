package engine

import (
	"context"
	"time"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const toolBatchContinue = "batch_continue"

// pollInterval and pollDeadline are overridable in tests so the 30-minute,
// 60-second-tick polling loop in BatchContinue can be driven deterministically.
var (
	pollInterval = 60 * time.Second
	pollDeadline = 30 * time.Minute
)

// BatchContinue records an optional PR number on the current batch issue,
// then polls PR status every pollInterval until merged, cancelled, or the
// pollDeadline elapses. On merge it advances the batch and returns the
// next issue or the completed list; on deadline it marks the batch
// timed out (spec §4.7, §9 Open Question #3: the deadline resets on every
// call rather than accumulating across calls).
func (e *Engine) BatchContinue(ctx context.Context, args BatchContinueArgs) (resp BatchContinueResponse, opErr error) {
	start := now()
	defer func() {
		e.auditLog(toolBatchContinue, "", nil, "", outcomeFor(opErr), start, opErr,
			map[string]any{"batchId": args.BatchID, "action": resp.Action})
	}()

	if err := e.validator().Struct(args); err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "invalid arguments: %v", err)
	}

	batch, err := e.Batches.Get(args.BatchID)
	if err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "read batch %s: %v", args.BatchID, err)
	}

	if batch.Status == types.BatchTimeout {
		if err := e.Batches.Resume(args.BatchID); err != nil {
			return resp, types.NewOpError(types.CodeInternalError, "resume batch %s: %v", args.BatchID, err)
		}
		batch.Status = types.BatchInProgress
	}

	if args.PRNumber != 0 {
		if err := e.Batches.SetPR(args.BatchID, args.PRNumber); err != nil {
			return resp, types.NewOpError(types.CodeInternalError, "record pr on batch: %v", err)
		}
		batch.CurrentPR = intPtr(args.PRNumber)
	}

	if batch.CurrentIssue == nil || batch.CurrentPR == nil {
		return resp, types.NewOpError(types.CodeInternalError, "batch %s has no current issue/pr in flight", args.BatchID)
	}

	owner, repo, err := e.resolveRepository(batch.Repository)
	if err != nil {
		return resp, err
	}

	deadline := now().Add(pollDeadline)
	for {
		if now().After(deadline) {
			if err := e.Batches.Timeout(args.BatchID); err != nil {
				return resp, types.NewOpError(types.CodeInternalError, "mark batch timeout: %v", err)
			}
			resp.Action = "timeout"
			resp.CurrentIssue = batch.CurrentIssue
			resp.CurrentPR = batch.CurrentPR
			return resp, nil
		}

		status, statusErr := e.Client.GetPRStatus(ctx, owner, repo, *batch.CurrentPR)
		if statusErr != nil {
			if e.Logger != nil {
				e.Logger.Warnw("transient error polling pr status", "batchId", args.BatchID, "error", statusErr)
			}
		} else if status.State == "merged" {
			return e.advanceBatchAfterMerge(ctx, owner, repo, args.BatchID)
		}

		select {
		case <-ctx.Done():
			return resp, types.NewOpError(types.CodeInternalError, "batch_continue cancelled: %v", ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}

func (e *Engine) advanceBatchAfterMerge(ctx context.Context, owner, repo, batchID string) (BatchContinueResponse, error) {
	var resp BatchContinueResponse
	updated, err := e.Batches.CompleteCurrent(batchID, now())
	if err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "complete current batch issue: %v", err)
	}

	if updated.Status == types.BatchCompleted {
		resp.Action = "complete"
		resp.Completed = updated.Completed
		resp.TotalCount = updated.TotalCount
		return resp, nil
	}

	nextNumber, ok, err := e.Batches.StartNext(batchID)
	if err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "start next batch issue: %v", err)
	}
	if !ok {
		resp.Action = "complete"
		resp.Completed = updated.Completed
		resp.TotalCount = updated.TotalCount
		return resp, nil
	}

	issue, issueErr := e.Client.GetIssue(ctx, owner, repo, nextNumber)
	if issueErr != nil {
		issue = types.Issue{Owner: owner, Repo: repo, Number: nextNumber}
	}

	resp.Action = "implement"
	resp.Issue = &issue
	resp.Progress = &BatchProgress{Current: updated.CompletedCount + 1, Total: updated.TotalCount}
	return resp, nil
}
