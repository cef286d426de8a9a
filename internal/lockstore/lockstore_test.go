package lockstore

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProber drives liveness deterministically for staleness tests,
// per spec §9's test-double guidance.
type fakeProber struct {
	alive map[int]bool
}

func (f fakeProber) Alive(pid int) bool { return f.alive[pid] }

func TestAcquire_SucceedsOnceThenFailsLockHeld(t *testing.T) {
	store := New(t.TempDir()).WithProber(fakeProber{alive: map[int]bool{100: true}})

	lock, err := store.Acquire("o", "r", 42, "session-a", 100)
	require.NoError(t, err)
	assert.Equal(t, 42, lock.IssueNumber)

	_, err = store.Acquire("o", "r", 42, "session-b", 200)
	require.Error(t, err)
	opErr := types.AsOpError(err)
	assert.Equal(t, types.CodeLockHeld, opErr.Code)
}

func TestAcquire_StaleByAgeIsDisplaced(t *testing.T) {
	dir := t.TempDir()
	store := New(dir).WithProber(fakeProber{alive: map[int]bool{100: true}})

	lock, err := store.Acquire("o", "r", 1, "session-a", 100)
	require.NoError(t, err)
	lock.AcquiredAt = time.Now().Add(-31 * time.Minute)
	writeLockForTest(t, store, "o", "r", 1, lock)

	newLock, err := store.Acquire("o", "r", 1, "session-b", 100)
	require.NoError(t, err)
	assert.Equal(t, "session-b", newLock.SessionID)
}

func TestAcquire_StaleByDeadProcessIsDisplaced(t *testing.T) {
	store := New(t.TempDir()).WithProber(fakeProber{alive: map[int]bool{999: false}})

	_, err := store.Acquire("o", "r", 1, "session-a", 999)
	require.NoError(t, err)

	newLock, err := store.Acquire("o", "r", 1, "session-b", 1)
	require.NoError(t, err)
	assert.Equal(t, "session-b", newLock.SessionID)
}

func TestReleaseThenAcquireRoundTrip(t *testing.T) {
	store := New(t.TempDir()).WithProber(fakeProber{alive: map[int]bool{1: true}})

	first, err := store.Acquire("o", "r", 7, "session-a", 1)
	require.NoError(t, err)

	require.NoError(t, store.Release("o", "r", 7, "session-a"))

	second, err := store.Acquire("o", "r", 7, "session-a", 1)
	require.NoError(t, err)
	assert.True(t, second.AcquiredAt.After(first.AcquiredAt) || second.AcquiredAt.Equal(first.AcquiredAt))
}

func TestRelease_WrongSessionRefuses(t *testing.T) {
	store := New(t.TempDir()).WithProber(fakeProber{alive: map[int]bool{1: true}})
	_, err := store.Acquire("o", "r", 7, "session-a", 1)
	require.NoError(t, err)

	err = store.Release("o", "r", 7, "session-b")
	require.Error(t, err)
	assert.Equal(t, types.CodeNotLocked, types.AsOpError(err).Code)
}

func TestRelease_AbsentIsNoOp(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, store.Release("o", "r", 99, "anyone"))
}

func TestForceClaim_ReturnsPreviousHolder(t *testing.T) {
	store := New(t.TempDir()).WithProber(fakeProber{alive: map[int]bool{1: true}})
	_, err := store.Acquire("o", "r", 7, "session-a", 1)
	require.NoError(t, err)

	newLock, previous, err := store.ForceClaim("o", "r", 7, "session-b", 2)
	require.NoError(t, err)
	assert.Equal(t, "session-b", newLock.SessionID)
	assert.Equal(t, "session-a", previous.SessionID)
}

func TestList_ReportsStaleFlag(t *testing.T) {
	store := New(t.TempDir()).WithProber(fakeProber{alive: map[int]bool{1: true, 2: false}})
	_, err := store.Acquire("o", "r", 1, "session-a", 1)
	require.NoError(t, err)
	_, err = store.Acquire("o", "r", 2, "session-b", 2)
	require.NoError(t, err)

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.False(t, entries[0].Stale)
	assert.True(t, entries[1].Stale)
}

// writeLockForTest overwrites the on-disk record directly, used to
// backdate acquiredAt to drive the age-based staleness path.
func writeLockForTest(t *testing.T, store *Store, owner, repo string, number int, lock types.Lock) {
	t.Helper()
	data, err := json.Marshal(lock)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.path(owner, repo, number), data, 0o644))
}
