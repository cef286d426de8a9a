package types

import "time"

// Lock is the on-disk claim record for one (owner, repo, issueNumber)
// triple. Its presence on disk IS the claim; see internal/lockstore.
type Lock struct {
	Owner       string    `json:"owner"`
	Repo        string    `json:"repo"`
	IssueNumber int       `json:"issueNumber"`
	PID         int       `json:"pid"`
	SessionID   string    `json:"sessionId"`
	AcquiredAt  time.Time `json:"acquiredAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LockListEntry pairs a parsed Lock with its computed staleness, for the
// directory-scan listing operation.
type LockListEntry struct {
	Lock  Lock `json:"lock"`
	Stale bool `json:"stale"`
	Alive bool `json:"alive"`
}
