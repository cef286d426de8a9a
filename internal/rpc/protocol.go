// Package rpc frames the twelve tool operations as newline-delimited JSON
// request/response pairs over an arbitrary io.Reader/io.Writer pair,
// adapted from BeadsLog's internal/rpc/protocol.go and client.go Execute
// framing (marshal request, write, '\n', flush; read one line, unmarshal).
package rpc

import "encoding/json"

// Operation names, one per tool the engine exposes.
const (
	OpCreateIssue       = "create_issue"
	OpListBacklog       = "list_backlog"
	OpSelectNextIssue   = "select_next_issue"
	OpAdvanceWorkflow   = "advance_workflow"
	OpReleaseLock       = "release_lock"
	OpForceClaim        = "force_claim"
	OpGetWorkflowStatus = "get_workflow_status"
	OpSyncBacklogLabels = "sync_backlog_labels"
	OpGetPRStatus       = "get_pr_status"
	OpBulkUpdateIssues  = "bulk_update_issues"
	OpImplementBatch    = "implement_batch"
	OpBatchContinue     = "batch_continue"
)

// Request is one line of input: an operation name plus its raw args.
type Request struct {
	Operation string          `json:"operation"`
	Args      json.RawMessage `json:"args"`
	RequestID string          `json:"requestId,omitempty"`
}

// Response is one line of output. Exactly one of Data or Error is set,
// per spec's "success: true payload or success: false with error/code"
// contract.
type Response struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	Code      string          `json:"code,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Details   any             `json:"details,omitempty"`
	RequestID string          `json:"requestId,omitempty"`
}
