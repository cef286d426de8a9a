package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendThenReadDay(t *testing.T) {
	log := New(t.TempDir())
	now := time.Date(2026, 7, 30, 10, 0, 0, 0, time.UTC)

	require.NoError(t, log.Append(types.AuditRecord{Timestamp: now, Tool: "select_next_issue", Outcome: types.OutcomeSuccess}))
	require.NoError(t, log.Append(types.AuditRecord{Timestamp: now, Tool: "lock.acquire", Outcome: types.OutcomeSuccess}))

	records, err := log.ReadDay(now)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "select_next_issue", records[0].Tool)
}

func TestReadDay_TolerateMalformedLines(t *testing.T) {
	dir := t.TempDir()
	log := New(dir)
	day := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, dirName), 0o755))
	path := filepath.Join(dir, dirName, filePrefix+day.Format(dateLayout)+fileSuffix)
	content := `{"tool":"ok","outcome":"success"}` + "\n" + `not json` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := log.ReadDay(day)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ok", records[0].Tool)
}

func TestSweep_DeletesOldGeneralDayButKeepsOldLockEventDay(t *testing.T) {
	dir := t.TempDir()
	log := New(dir)
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	generalOnlyDay := now.Add(-40 * 24 * time.Hour)  // > 30d, general only -> swept
	lockEventDay := now.Add(-60 * 24 * time.Hour)    // > 30d but < 90d, has lock event -> kept

	require.NoError(t, log.Append(types.AuditRecord{Timestamp: generalOnlyDay, Tool: "select_next_issue"}))
	require.NoError(t, log.Append(types.AuditRecord{Timestamp: lockEventDay, Tool: "lock.acquire"}))

	require.NoError(t, log.Sweep(now))

	days, err := log.ListDays()
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.True(t, days[0].Equal(lockEventDay.UTC().Truncate(24*time.Hour)))
}
