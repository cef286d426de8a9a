package engine

import "strings"

// CreateIssueArgs's body fields, formatted into the canonical template
// from spec §6 when no raw body is supplied.
func formatIssueBody(title, context string, acceptanceCriteria []string, technicalNotes string) string {
	var b strings.Builder
	b.WriteString("## Summary\n")
	b.WriteString(title)
	b.WriteString("\n")

	if context != "" {
		b.WriteString("\n## Context\n")
		b.WriteString(context)
		b.WriteString("\n")
	}

	if len(acceptanceCriteria) > 0 {
		b.WriteString("\n## Acceptance Criteria\n")
		for _, item := range acceptanceCriteria {
			b.WriteString("- [ ] ")
			b.WriteString(item)
			b.WriteString("\n")
		}
	}

	if technicalNotes != "" {
		b.WriteString("\n## Technical Notes\n")
		b.WriteString(technicalNotes)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
