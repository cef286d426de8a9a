package types

import "time"

// BatchStatus is the lifecycle state of a BatchState.
type BatchStatus string

const (
	BatchInProgress BatchStatus = "in_progress"
	BatchCompleted  BatchStatus = "completed"
	BatchTimeout    BatchStatus = "timeout"
	BatchAbandoned  BatchStatus = "abandoned"
)

// CompletedEntry records one issue's journey through a batch. StartedAt
// holds the batch's start time (BatchState.StartedAt), not the time this
// issue was started.
type CompletedEntry struct {
	Issue     int       `json:"issue"`
	PR        int       `json:"pr"`
	StartedAt time.Time `json:"startedAt"`
	MergedAt  time.Time `json:"mergedAt"`
}

// BatchState is the one-per-batch persisted record. Invariant:
// CompletedCount + len(Queue) + (CurrentIssue != nil ? 1 : 0) == TotalCount.
type BatchState struct {
	ID             string           `json:"id"`
	Repository     string           `json:"repository"`
	TotalCount     int              `json:"totalCount"`
	CompletedCount int              `json:"completedCount"`
	CurrentIssue   *int             `json:"currentIssue"`
	CurrentPR      *int             `json:"currentPr"`
	Queue          []int            `json:"queue"`
	Completed      []CompletedEntry `json:"completed"`
	StartedAt      time.Time        `json:"startedAt"`
	Status         BatchStatus      `json:"status"`
}

// Invariant reports whether the bookkeeping identity holds.
func (b BatchState) Invariant() bool {
	current := 0
	if b.CurrentIssue != nil {
		current = 1
	}
	return b.CompletedCount+len(b.Queue)+current == b.TotalCount
}
