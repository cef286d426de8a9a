// Package batchstore implements C5: one BatchState file per batch, with
// every mutating read-modify-write sequence executed under a cooperative
// file lock on the batch file. The lock wrapper generalizes the
// withFileLock pattern in BeadsLog's internal/daemon/registry.go from a
// single daemon registry file to one lock per batch.
package batchstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const dirName = "batches"
const lockRetries = 5
const lockRetryDelay = 100 * time.Millisecond

// Store is the batch state store rooted at a base directory.
type Store struct {
	dir string
}

// New returns a Store rooted at <base>/batches.
func New(base string) *Store {
	return &Store{dir: filepath.Join(base, dirName)}
}

func (s *Store) dataPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) lockPath(id string) string {
	return filepath.Join(s.dir, id+".json.lock")
}

// withFileLock acquires an advisory cooperative lock on the batch's lock
// file for the duration of fn, with a small bounded retry count, per spec
// §4.5. The lock is acquired only to mutate — it is never held across the
// 60-second batch_continue polling ticks (those live in the engine layer,
// above this store).
func (s *Store) withFileLock(id string, fn func() error) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return types.NewOpError(types.CodeInternalError, "create batch directory: %v", err)
	}
	fl := flock.New(s.lockPath(id))
	var locked bool
	var err error
	for attempt := 0; attempt < lockRetries; attempt++ {
		locked, err = fl.TryLock()
		if err != nil {
			return types.NewOpError(types.CodeInternalError, "acquire batch lock: %v", err)
		}
		if locked {
			break
		}
		time.Sleep(lockRetryDelay)
	}
	if !locked {
		return types.NewOpError(types.CodeInternalError, "batch %s is locked by another process", id)
	}
	defer fl.Unlock()
	return fn()
}

func (s *Store) read(id string) (types.BatchState, error) {
	data, err := os.ReadFile(s.dataPath(id))
	if err != nil {
		return types.BatchState{}, types.NewOpError(types.CodeInternalError, "read batch state: %v", err)
	}
	var state types.BatchState
	if err := json.Unmarshal(data, &state); err != nil {
		return types.BatchState{}, types.NewOpError(types.CodeInternalError, "parse batch state: %v", err)
	}
	return state, nil
}

func (s *Store) write(state types.BatchState) error {
	if !state.Invariant() {
		return types.NewOpError(types.CodeInternalError, "batch state invariant violated for %s", state.ID)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return types.NewOpError(types.CodeInternalError, "marshal batch state: %v", err)
	}

	target := s.dataPath(state.ID)
	tmp, err := os.CreateTemp(s.dir, "batch-*.tmp")
	if err != nil {
		return types.NewOpError(types.CodeInternalError, "create temp batch file: %v", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return types.NewOpError(types.CodeInternalError, "write temp batch file: %v", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return types.NewOpError(types.CodeInternalError, "sync temp batch file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return types.NewOpError(types.CodeInternalError, "close temp batch file: %v", err)
	}
	return os.Rename(tmpName, target)
}

// Get reads a batch by id.
func (s *Store) Get(id string) (types.BatchState, error) {
	return s.read(id)
}

// Create generates a new batch id and persists the initial queue.
func (s *Store) Create(repository string, queue []int) (types.BatchState, error) {
	state := types.BatchState{
		ID:         uuid.NewString(),
		Repository: repository,
		TotalCount: len(queue),
		Queue:      append([]int(nil), queue...),
		StartedAt:  time.Now().UTC(),
		Status:     types.BatchInProgress,
	}
	if err := s.write(state); err != nil {
		return types.BatchState{}, err
	}
	return state, nil
}

// StartNext pops the queue head under lock, sets it as current, and
// returns it. Returns ok=false if the queue was already empty.
func (s *Store) StartNext(id string) (issue int, ok bool, err error) {
	err = s.withFileLock(id, func() error {
		state, readErr := s.read(id)
		if readErr != nil {
			return readErr
		}
		if len(state.Queue) == 0 {
			return nil
		}
		issue = state.Queue[0]
		ok = true
		state.Queue = state.Queue[1:]
		state.CurrentIssue = &issue
		return s.write(state)
	})
	return issue, ok, err
}

// SetPR records the PR number for the current issue.
func (s *Store) SetPR(id string, prNumber int) error {
	return s.withFileLock(id, func() error {
		state, err := s.read(id)
		if err != nil {
			return err
		}
		state.CurrentPR = &prNumber
		return s.write(state)
	})
}

// CompleteCurrent moves the current issue into the completed list.
// Requires CurrentIssue and CurrentPR to be set.
func (s *Store) CompleteCurrent(id string, now time.Time) (types.BatchState, error) {
	var result types.BatchState
	err := s.withFileLock(id, func() error {
		state, err := s.read(id)
		if err != nil {
			return err
		}
		if state.CurrentIssue == nil || state.CurrentPR == nil {
			return types.NewOpError(types.CodeInternalError, "batch %s has no current issue/pr to complete", id)
		}
		state.Completed = append(state.Completed, types.CompletedEntry{
			Issue:     *state.CurrentIssue,
			PR:        *state.CurrentPR,
			StartedAt: state.StartedAt,
			MergedAt:  now,
		})
		state.CompletedCount++
		state.CurrentIssue = nil
		state.CurrentPR = nil
		if len(state.Queue) == 0 {
			state.Status = types.BatchCompleted
		}
		if err := s.write(state); err != nil {
			return err
		}
		result = state
		return nil
	})
	return result, err
}

// Abandon marks the batch abandoned.
func (s *Store) Abandon(id string) error {
	return s.setStatus(id, types.BatchAbandoned)
}

// Timeout marks the batch timed out.
func (s *Store) Timeout(id string) error {
	return s.setStatus(id, types.BatchTimeout)
}

// Resume clears a timeout status back to in_progress so batch_continue
// can keep polling (spec §9 Open Question #3: deadline resets per call).
func (s *Store) Resume(id string) error {
	return s.setStatus(id, types.BatchInProgress)
}

func (s *Store) setStatus(id string, status types.BatchStatus) error {
	return s.withFileLock(id, func() error {
		state, err := s.read(id)
		if err != nil {
			return err
		}
		state.Status = status
		return s.write(state)
	})
}
