// Package audit implements C6: append-only JSONL records written to a
// daily file and swept by a retention policy. Records whose Tool starts
// with "lock." count as lock events for Sweep. The engine's operations
// write one record per tool invocation, named after the operation; they
// write no separate lock or phase event records. Adapted closely from
// BeadsLog's internal/audit/audit.go (bufio.Writer + json.Encoder with
// HTML escaping disabled, one file per day).
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const dirName = "logs"
const filePrefix = "audit-"
const fileSuffix = ".jsonl"
const dateLayout = "2006-01-02"

// DefaultRetention is the general-event retention floor from spec §4.6.
const DefaultRetention = 30 * 24 * time.Hour

// LockEventRetention is the target retention for lock-acquire/release
// records; honored by keeping a daily file as long as any event in it
// needs the longer window (see Sweep).
const LockEventRetention = 90 * 24 * time.Hour

// Log appends records to daily files under <base>/logs.
type Log struct {
	dir string
}

// New returns a Log rooted at <base>/logs.
func New(base string) *Log {
	return &Log{dir: filepath.Join(base, dirName)}
}

func (l *Log) pathForDay(day time.Time) string {
	return filepath.Join(l.dir, filePrefix+day.UTC().Format(dateLayout)+fileSuffix)
}

// Append writes one record as a line of JSON to today's file.
func (l *Log) Append(record types.AuditRecord) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create audit directory: %w", err)
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	f, err := os.OpenFile(l.pathForDay(record.Timestamp), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("encode audit record: %w", err)
	}
	return bw.Flush()
}

// ReadDay reads every well-formed record in a day's file, tolerating and
// skipping malformed lines left by a crash mid-write (spec §4.6).
func (l *Log) ReadDay(day time.Time) ([]types.AuditRecord, error) {
	data, err := os.ReadFile(l.pathForDay(day))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read audit file: %w", err)
	}
	var out []types.AuditRecord
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var rec types.AuditRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Sweep deletes daily files whose date is older than the retention floor.
// A day containing any lock-acquire/release record is kept until
// LockEventRetention elapses instead of DefaultRetention, approximating
// spec §4.6's "rotation keeps logs by day" policy without needing
// per-line deletion.
func (l *Log) Sweep(now time.Time) error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("list audit directory: %w", err)
	}

	for _, e := range entries {
		day, ok := dayFromFileName(e.Name())
		if !ok {
			continue
		}
		age := now.UTC().Sub(day)
		retention := DefaultRetention
		if l.hasLockEvents(day) {
			retention = LockEventRetention
		}
		if age > retention {
			_ = os.Remove(filepath.Join(l.dir, e.Name()))
		}
	}
	return nil
}

func (l *Log) hasLockEvents(day time.Time) bool {
	records, err := l.ReadDay(day)
	if err != nil {
		return false
	}
	for _, r := range records {
		if strings.HasPrefix(r.Tool, "lock.") {
			return true
		}
	}
	return false
}

func dayFromFileName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// ListDays returns every day this log currently has a file for, sorted
// ascending — used by tests and by operational tooling, not by the engine
// itself.
func (l *Log) ListDays() ([]time.Time, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var days []time.Time
	for _, e := range entries {
		if day, ok := dayFromFileName(e.Name()); ok {
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}
