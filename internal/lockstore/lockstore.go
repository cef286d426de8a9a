// Package lockstore implements C3: one exclusive-create file per claimed
// issue, with staleness detection and directory-scan listing. Acquire,
// release, and list are adapted from BeadsLog's
// internal/daemon/registry.go to per-issue claim files instead of a single
// daemon registry file. Acquire creates the claim file exclusively and
// ForceClaim overwrites it in place (no temp-file rename); List flags each
// entry's staleness and holder liveness but deletes nothing.
package lockstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

// StaleAfter is the fixed staleness deadline (spec §4.3, §9 Open Question
// #2: not made configurable).
const StaleAfter = 30 * time.Minute

const dirName = "locks"
const ext = ".lockdata"

var fileNamePattern = regexp.MustCompile(`^(.+)_(.+)_(\d+)\.lockdata$`)

// Store is the lock store rooted at a base directory.
type Store struct {
	dir    string
	prober Prober
}

// New returns a Store rooted at <base>/locks, using the default liveness
// prober.
func New(base string) *Store {
	return &Store{dir: filepath.Join(base, dirName), prober: DefaultProber}
}

// WithProber returns a copy of the store using a caller-supplied prober,
// for deterministic staleness tests.
func (s *Store) WithProber(p Prober) *Store {
	return &Store{dir: s.dir, prober: p}
}

func (s *Store) path(owner, repo string, number int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s_%d%s", owner, repo, number, ext))
}

// Acquire implements the three-step protocol from spec §4.3: read any
// existing file; if present and not stale, fail LOCK_HELD; if stale,
// delete it; exclusive-create the new record, failing LOCK_HELD if a
// concurrent acquirer won the create race.
func (s *Store) Acquire(owner, repo string, number int, sessionID string, pid int) (types.Lock, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return types.Lock{}, types.NewOpError(types.CodeLockCreationFailed, "create lock directory: %v", err)
	}
	path := s.path(owner, repo, number)

	if existing, err := s.read(path); err == nil {
		if !s.isStale(existing) {
			return types.Lock{}, types.NewOpError(types.CodeLockHeld, "issue %d is locked by session %s", number, existing.SessionID)
		}
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			return types.Lock{}, types.NewOpError(types.CodeLockCreationFailed, "remove stale lock: %v", rmErr)
		}
	}

	now := time.Now().UTC()
	lock := types.Lock{
		Owner:       owner,
		Repo:        repo,
		IssueNumber: number,
		PID:         pid,
		SessionID:   sessionID,
		AcquiredAt:  now,
		UpdatedAt:   now,
	}

	data, err := json.Marshal(lock)
	if err != nil {
		return types.Lock{}, types.NewOpError(types.CodeInternalError, "marshal lock: %v", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return types.Lock{}, types.NewOpError(types.CodeLockHeld, "issue %d is locked (lost creation race)", number)
		}
		return types.Lock{}, types.NewOpError(types.CodeLockCreationFailed, "create lock file: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return types.Lock{}, types.NewOpError(types.CodeLockCreationFailed, "write lock file: %v", err)
	}

	return lock, nil
}

// Release deletes the lock if sessionID matches its holder. Delete-on-
// absent is a no-op success. A present lock held by a different session
// refuses with NOT_LOCKED.
func (s *Store) Release(owner, repo string, number int, sessionID string) error {
	path := s.path(owner, repo, number)
	existing, err := s.read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return types.NewOpError(types.CodeInternalError, "read lock file: %v", err)
	}
	if existing.SessionID != sessionID {
		return types.NewOpError(types.CodeNotLocked, "issue %d is not locked by this session", number)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return types.NewOpError(types.CodeInternalError, "remove lock file: %v", err)
	}
	return nil
}

// ForceClaim deletes any existing lock (regardless of holder) and writes a
// new one, non-exclusively. It returns the new lock and the previous one
// (zero value if none existed), since the caller must audit-log the
// takeover including the prior holder's session id.
func (s *Store) ForceClaim(owner, repo string, number int, sessionID string, pid int) (newLock types.Lock, previous types.Lock, err error) {
	if mkErr := os.MkdirAll(s.dir, 0o755); mkErr != nil {
		return types.Lock{}, types.Lock{}, types.NewOpError(types.CodeLockCreationFailed, "create lock directory: %v", mkErr)
	}
	path := s.path(owner, repo, number)

	previous, readErr := s.read(path)
	hadPrevious := readErr == nil

	now := time.Now().UTC()
	newLock = types.Lock{
		Owner:       owner,
		Repo:        repo,
		IssueNumber: number,
		PID:         pid,
		SessionID:   sessionID,
		AcquiredAt:  now,
		UpdatedAt:   now,
	}
	data, marshalErr := json.Marshal(newLock)
	if marshalErr != nil {
		return types.Lock{}, types.Lock{}, types.NewOpError(types.CodeInternalError, "marshal lock: %v", marshalErr)
	}
	if writeErr := os.WriteFile(path, data, 0o644); writeErr != nil {
		return types.Lock{}, types.Lock{}, types.NewOpError(types.CodeLockCreationFailed, "write lock file: %v", writeErr)
	}
	if !hadPrevious {
		return newLock, types.Lock{}, nil
	}
	return newLock, previous, nil
}

// Get reads the current lock for an issue, if any.
func (s *Store) Get(owner, repo string, number int) (types.Lock, bool, error) {
	lock, err := s.read(s.path(owner, repo, number))
	if err != nil {
		if os.IsNotExist(err) {
			return types.Lock{}, false, nil
		}
		return types.Lock{}, false, err
	}
	return lock, true, nil
}

// List scans the lock directory and reports every parsed lock plus its
// staleness and liveness flags.
func (s *Store) List() ([]types.LockListEntry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, types.NewOpError(types.CodeInternalError, "list lock directory: %v", err)
	}

	var out []types.LockListEntry
	for _, e := range entries {
		if e.IsDir() || !fileNamePattern.MatchString(e.Name()) {
			continue
		}
		lock, err := s.read(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue // malformed or racing write; skip, matches readers tolerating partial files
		}
		out = append(out, types.LockListEntry{
			Lock:  lock,
			Stale: s.isStale(lock),
			Alive: s.prober.Alive(lock.PID),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Lock.IssueNumber < out[j].Lock.IssueNumber
	})
	return out, nil
}

func (s *Store) read(path string) (types.Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Lock{}, err
	}
	var lock types.Lock
	if err := json.Unmarshal(data, &lock); err != nil {
		return types.Lock{}, err
	}
	return lock, nil
}

func (s *Store) isStale(lock types.Lock) bool {
	if time.Since(lock.AcquiredAt) > StaleAfter {
		return true
	}
	return !s.prober.Alive(lock.PID)
}

// ParseFileName extracts owner, repo, and issue number from a lock file
// name, for callers that only have the directory entry.
func ParseFileName(name string) (owner, repo string, number int, ok bool) {
	m := fileNamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", 0, false
	}
	n, err := strconv.Atoi(m[3])
	if err != nil {
		return "", "", 0, false
	}
	return m[1], m[2], n, true
}
