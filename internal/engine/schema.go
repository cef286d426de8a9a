package engine

import "github.com/steiner385/mcp-git-issue-priority/internal/types"

// This file declares the input and output shapes for the twelve tool
// operations. Args structs carry validator tags checked through
// Engine.validator before any operation touches durable state, per spec §4.7's "inputs are
// validated before any side effect."

// CreateIssueArgs is the input to CreateIssue.
type CreateIssueArgs struct {
	Repository         string   `json:"repository,omitempty"`
	Title              string   `json:"title" validate:"required"`
	Context            string   `json:"context,omitempty"`
	AcceptanceCriteria []string `json:"acceptanceCriteria,omitempty"`
	TechnicalNotes     string   `json:"technicalNotes,omitempty"`
	Body               string   `json:"body,omitempty"`
	Priority           string   `json:"priority,omitempty"`
	Type               string   `json:"type,omitempty"`
}

// CreateIssueResponse is the output of CreateIssue.
type CreateIssueResponse struct {
	Issue types.Issue `json:"issue"`
}

// ListBacklogArgs is the input to ListBacklog.
type ListBacklogArgs struct {
	Repository   string   `json:"repository,omitempty"`
	IncludeTypes []string `json:"includeTypes,omitempty"`
	ExcludeTypes []string `json:"excludeTypes,omitempty"`
	Limit        int      `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

// BacklogEntry is one scored, annotated candidate in a ListBacklog response.
type BacklogEntry struct {
	Issue     types.Issue         `json:"issue"`
	Score     types.PriorityScore `json:"score"`
	IsLocked  bool                `json:"isLocked"`
	LockedBy  string              `json:"lockedBy,omitempty"`
	BlockedBy int                 `json:"blockedBy,omitempty"`
}

// ListBacklogResponse is the output of ListBacklog.
type ListBacklogResponse struct {
	Entries []BacklogEntry `json:"entries"`
	Total   int            `json:"total"`
}

// SelectNextIssueArgs is the input to SelectNextIssue.
type SelectNextIssueArgs struct {
	Repository   string   `json:"repository,omitempty"`
	IncludeTypes []string `json:"includeTypes,omitempty"`
	ExcludeTypes []string `json:"excludeTypes,omitempty"`
}

// SelectNextIssueResponse is the output of SelectNextIssue.
type SelectNextIssueResponse struct {
	Issue types.Issue         `json:"issue"`
	Score types.PriorityScore `json:"score"`
	Lock  types.Lock          `json:"lock"`
}

// AdvanceWorkflowArgs is the input to AdvanceWorkflow.
type AdvanceWorkflowArgs struct {
	Repository        string `json:"repository,omitempty"`
	IssueNumber       int    `json:"issueNumber" validate:"required"`
	TargetPhase       string `json:"targetPhase" validate:"required"`
	TestsPassed       *bool  `json:"testsPassed,omitempty"`
	SkipJustification string `json:"skipJustification,omitempty"`
	PRTitle           string `json:"prTitle,omitempty"`
	PRBody            string `json:"prBody,omitempty"`
}

// AdvanceWorkflowResponse is the output of AdvanceWorkflow.
type AdvanceWorkflowResponse struct {
	PreviousPhase types.Phase `json:"previousPhase"`
	CurrentPhase  types.Phase `json:"currentPhase"`
	BranchName    string      `json:"branchName,omitempty"`
	PRNumber      int         `json:"prNumber,omitempty"`
	PRURL         string      `json:"prUrl,omitempty"`
}

// ReleaseLockArgs is the input to ReleaseLock.
type ReleaseLockArgs struct {
	Repository  string `json:"repository,omitempty"`
	IssueNumber int    `json:"issueNumber" validate:"required"`
	Reason      string `json:"reason" validate:"required,oneof=abandoned completed merged"`
}

// ReleaseLockResponse is the output of ReleaseLock.
type ReleaseLockResponse struct {
	LockDurationSeconds float64 `json:"lockDurationSeconds"`
}

// ForceClaimArgs is the input to ForceClaim.
type ForceClaimArgs struct {
	Repository   string `json:"repository,omitempty"`
	IssueNumber  int    `json:"issueNumber" validate:"required"`
	Confirmation string `json:"confirmation" validate:"required"`
}

const forceClaimConfirmation = "I understand this may cause conflicts"

// ForceClaimResponse is the output of ForceClaim.
type ForceClaimResponse struct {
	Lock              types.Lock `json:"lock"`
	PreviousSessionID string     `json:"previousSessionId,omitempty"`
}

// GetWorkflowStatusArgs is the input to GetWorkflowStatus.
type GetWorkflowStatusArgs struct {
	Repository  string `json:"repository,omitempty"`
	IssueNumber int    `json:"issueNumber,omitempty"`
}

// WorkflowStatusEntry pairs a lock with its workflow state for the
// current-session listing mode.
type WorkflowStatusEntry struct {
	Lock  types.Lock          `json:"lock"`
	State types.WorkflowState `json:"state"`
}

// GetWorkflowStatusResponse is the output of GetWorkflowStatus. Exactly
// one of State or Entries is populated depending on whether IssueNumber
// was supplied.
type GetWorkflowStatusResponse struct {
	State   *types.WorkflowState  `json:"state,omitempty"`
	Entries []WorkflowStatusEntry `json:"entries,omitempty"`
}

// SyncBacklogLabelsArgs is the input to SyncBacklogLabels.
type SyncBacklogLabelsArgs struct {
	Repository string `json:"repository,omitempty"`
	Mode       string `json:"mode" validate:"required,oneof=report update"`
}

// MissingLabelEntry reports one issue missing a label family.
type MissingLabelEntry struct {
	IssueNumber   int  `json:"issueNumber"`
	MissingPrio   bool `json:"missingPriority"`
	MissingType   bool `json:"missingType"`
	MissingStatus bool `json:"missingStatus"`
}

// SyncBacklogLabelsResponse is the output of SyncBacklogLabels.
type SyncBacklogLabelsResponse struct {
	Mode    string              `json:"mode"`
	Missing []MissingLabelEntry `json:"missing"`
	Updated []int               `json:"updated,omitempty"`
}

// GetPRStatusArgs is the input to GetPRStatus.
type GetPRStatusArgs struct {
	Repository string `json:"repository,omitempty"`
	PRNumber   int    `json:"prNumber" validate:"required"`
}

// GetPRStatusResponse is the output of GetPRStatus.
type GetPRStatusResponse struct {
	Status PRStatusView `json:"status"`
}

// PRStatusView is the JSON-facing projection of ghclient.PRStatus, kept
// distinct so the engine package owns its own wire shape.
type PRStatusView struct {
	Number    int      `json:"number"`
	State     string   `json:"state"`
	Checks    string   `json:"checks"`
	Review    string   `json:"review"`
	Reviewers []string `json:"reviewers"`
	URL       string   `json:"url"`
}

// BulkUpdateIssuesArgs is the input to BulkUpdateIssues.
type BulkUpdateIssuesArgs struct {
	Repository   string   `json:"repository,omitempty"`
	IssueNumbers []int    `json:"issueNumbers" validate:"required,min=1,max=50"`
	AddLabels    []string `json:"addLabels,omitempty"`
	RemoveLabels []string `json:"removeLabels,omitempty"`
	State        string   `json:"state,omitempty" validate:"omitempty,oneof=open closed"`
}

// BulkUpdateFailure records one per-item failure in a bulk update.
type BulkUpdateFailure struct {
	IssueNumber int    `json:"issueNumber"`
	Error       string `json:"error"`
}

// BulkUpdateIssuesResponse is the output of BulkUpdateIssues.
type BulkUpdateIssuesResponse struct {
	Updated []int               `json:"updated"`
	Failed  []BulkUpdateFailure `json:"failed"`
	Total   int                 `json:"total"`
}

// ImplementBatchArgs is the input to ImplementBatch.
type ImplementBatchArgs struct {
	Repository  string `json:"repository,omitempty"`
	Count       int    `json:"count" validate:"required,min=1,max=10"`
	MaxPriority string `json:"maxPriority,omitempty"`
}

// ImplementBatchResponse is the output of ImplementBatch.
type ImplementBatchResponse struct {
	Action       string       `json:"action"`
	BatchID      string       `json:"batchId,omitempty"`
	Issue        *types.Issue `json:"issue,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
}

// BatchContinueArgs is the input to BatchContinue.
type BatchContinueArgs struct {
	BatchID  string `json:"batchId" validate:"required"`
	PRNumber int    `json:"prNumber,omitempty"`
}

// BatchProgress reports position within a batch.
type BatchProgress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// BatchContinueResponse is the output of BatchContinue.
type BatchContinueResponse struct {
	Action       string                 `json:"action"`
	Issue        *types.Issue           `json:"issue,omitempty"`
	Progress     *BatchProgress         `json:"progress,omitempty"`
	Completed    []types.CompletedEntry `json:"completed,omitempty"`
	TotalCount   int                    `json:"totalCount,omitempty"`
	CurrentIssue *int                   `json:"currentIssue,omitempty"`
	CurrentPR    *int                   `json:"currentPr,omitempty"`
}
