package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

func splitRepository(full string) (owner, repo string, err error) {
	parts := strings.SplitN(full, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/repo", full)
	}
	return parts[0], parts[1], nil
}

func typesRepoRequired(reason string) error {
	return types.NewOpError(types.CodeRepoRequired, "repository could not be resolved").WithReason(reason)
}

// auditLog records one audit entry, never failing the calling operation
// if the write itself errors (logged instead at warn level).
func (e *Engine) auditLog(tool, repo string, issueNumber *int, phase types.Phase, outcome types.Outcome, start time.Time, opErr error, metadata map[string]any) {
	e.auditLogAt(types.LevelInfo, tool, repo, issueNumber, phase, outcome, start, opErr, metadata)
}

// auditLogAt is auditLog with an explicit minimum level, for operations
// like force_claim that must log at warn regardless of outcome.
func (e *Engine) auditLogAt(level types.Level, tool, repo string, issueNumber *int, phase types.Phase, outcome types.Outcome, start time.Time, opErr error, metadata map[string]any) {
	rec := types.AuditRecord{
		Timestamp:   now().UTC(),
		Level:       level,
		Tool:        tool,
		SessionID:   e.SessionID,
		Repo:        repo,
		IssueNumber: issueNumber,
		Phase:       phase,
		Outcome:     outcome,
		Metadata:    metadata,
	}
	dur := now().Sub(start).Milliseconds()
	rec.DurationMS = &dur
	if opErr != nil {
		rec.Level = types.LevelWarn
		rec.Error = opErr.Error()
	}
	if err := e.Audit.Append(rec); err != nil && e.Logger != nil {
		e.Logger.Warnw("audit append failed", "tool", tool, "error", err)
	}
}

// slugify implements spec §4.4's branch-name slug rule: lower-case,
// non-alphanumerics replaced by '-', runs collapsed, truncated to 50
// chars with trailing '-' stripped.
func slugify(title string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(title) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > 50 {
		slug = slug[:50]
	}
	return strings.TrimRight(slug, "-")
}

func branchName(issueNumber int, title string) string {
	return strconv.Itoa(issueNumber) + "-" + slugify(title)
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
