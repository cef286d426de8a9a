package priority

import "github.com/steiner385/mcp-git-issue-priority/internal/types"

// Filters selects which issues are eligible for selection. A nil or empty
// IncludeTypes means "no type restriction"; ExcludeTypes is applied after
// IncludeTypes regardless.
type Filters struct {
	IncludeTypes []types.TypeClass
	ExcludeTypes []types.TypeClass
}

// Apply runs the fixed four-stage filter pipeline from spec §4.1 in order:
// drop in-progress, drop assigned, keep only included types (if given),
// drop excluded types. It preserves relative order and only ever removes
// elements, so it is idempotent under repeated application with the same
// Filters.
func Apply(issues []types.Issue, f Filters) []types.Issue {
	out := issues

	out = dropWhere(out, func(i types.Issue) bool {
		return ClassifyStatus(i.Labels) == types.StatusInProgress
	})

	out = dropWhere(out, func(i types.Issue) bool {
		return i.HasAnyAssignee()
	})

	if len(f.IncludeTypes) > 0 {
		out = keepWhere(out, func(i types.Issue) bool {
			return containsType(f.IncludeTypes, ClassifyType(i.Labels))
		})
	}

	if len(f.ExcludeTypes) > 0 {
		out = dropWhere(out, func(i types.Issue) bool {
			return containsType(f.ExcludeTypes, ClassifyType(i.Labels))
		})
	}

	return out
}

func dropWhere(issues []types.Issue, pred func(types.Issue) bool) []types.Issue {
	out := make([]types.Issue, 0, len(issues))
	for _, i := range issues {
		if !pred(i) {
			out = append(out, i)
		}
	}
	return out
}

func keepWhere(issues []types.Issue, pred func(types.Issue) bool) []types.Issue {
	out := make([]types.Issue, 0, len(issues))
	for _, i := range issues {
		if pred(i) {
			out = append(out, i)
		}
	}
	return out
}

func containsType(set []types.TypeClass, t types.TypeClass) bool {
	for _, s := range set {
		if s == t {
			return true
		}
	}
	return false
}
