// Package priority implements the deterministic scoring and filter
// pipeline that orders a candidate backlog. Every function here is a pure
// function of its arguments: no randomness, no wall-clock reads beyond the
// explicit "now" parameter, no dependence on label-set iteration order.
package priority

import (
	"strings"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const (
	labelPriorityPrefix = "priority:"
	labelTypePrefix     = "type:"
	labelStatusPrefix   = "status:"
)

// legacyPriorityAlias maps the P0..P3 convention onto the canonical
// critical|high|medium|low family. See DESIGN.md's Open Question decision.
var legacyPriorityAlias = map[string]types.PriorityClass{
	"P0": types.PriorityCritical,
	"P1": types.PriorityHigh,
	"P2": types.PriorityMedium,
	"P3": types.PriorityLow,
}

// ClassifyPriority derives the canonical priority class from an issue's
// labels, coercing the legacy priority:P0..P3 family to the canonical
// critical|high|medium|low family at this boundary.
func ClassifyPriority(labels []string) types.PriorityClass {
	for _, l := range labels {
		if !strings.HasPrefix(l, labelPriorityPrefix) {
			continue
		}
		value := strings.TrimPrefix(l, labelPriorityPrefix)
		if alias, ok := legacyPriorityAlias[value]; ok {
			return alias
		}
		switch types.PriorityClass(value) {
		case types.PriorityCritical, types.PriorityHigh, types.PriorityMedium, types.PriorityLow:
			return types.PriorityClass(value)
		}
	}
	return types.PriorityNone
}

// ClassifyType derives the type class from an issue's labels.
func ClassifyType(labels []string) types.TypeClass {
	for _, l := range labels {
		if !strings.HasPrefix(l, labelTypePrefix) {
			continue
		}
		value := types.TypeClass(strings.TrimPrefix(l, labelTypePrefix))
		switch value {
		case types.TypeBug, types.TypeFeature, types.TypeChore, types.TypeDocs:
			return value
		}
	}
	return types.TypeNone
}

// ClassifyStatus derives the status class from an issue's labels.
func ClassifyStatus(labels []string) types.StatusClass {
	for _, l := range labels {
		if !strings.HasPrefix(l, labelStatusPrefix) {
			continue
		}
		value := types.StatusClass(strings.TrimPrefix(l, labelStatusPrefix))
		switch value {
		case types.StatusBacklog, types.StatusInProgress, types.StatusInReview, types.StatusBlocked:
			return value
		}
	}
	return types.StatusNone
}

// HasBlockingLabel reports whether the issue declares it blocks other work.
func HasBlockingLabel(labels []string) bool {
	for _, l := range labels {
		if l == "blocking" || l == "blocker" {
			return true
		}
	}
	return false
}

// CanonicalPriorityLabel returns the `priority:<class>` label text for a
// class, in the canonical family.
func CanonicalPriorityLabel(class types.PriorityClass) string {
	return labelPriorityPrefix + string(class)
}

// NormalizePriorityArg coerces a caller-supplied priority argument (either
// family) to the canonical class, for operations like implement_batch's
// maxPriority.
func NormalizePriorityArg(arg string) types.PriorityClass {
	if alias, ok := legacyPriorityAlias[arg]; ok {
		return alias
	}
	switch types.PriorityClass(arg) {
	case types.PriorityCritical, types.PriorityHigh, types.PriorityMedium, types.PriorityLow:
		return types.PriorityClass(arg)
	}
	return types.PriorityNone
}
