package priority

import (
	"testing"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
	"github.com/stretchr/testify/assert"
)

func issueWith(number int, labels []string, assignees []string) types.Issue {
	return types.Issue{Number: number, Labels: labels, Assignees: assignees}
}

func TestApply_DropsInProgressAndAssigned(t *testing.T) {
	issues := []types.Issue{
		issueWith(1, []string{"status:in-progress"}, nil),
		issueWith(2, []string{"status:backlog"}, []string{"octocat"}),
		issueWith(3, []string{"status:backlog"}, nil),
	}

	out := Apply(issues, Filters{})
	assert.Len(t, out, 1)
	assert.Equal(t, 3, out[0].Number)
}

func TestApply_IncludeThenExcludeTypes(t *testing.T) {
	issues := []types.Issue{
		issueWith(1, []string{"type:bug"}, nil),
		issueWith(2, []string{"type:feature"}, nil),
		issueWith(3, []string{"type:chore"}, nil),
	}

	out := Apply(issues, Filters{
		IncludeTypes: []types.TypeClass{types.TypeBug, types.TypeFeature},
		ExcludeTypes: []types.TypeClass{types.TypeFeature},
	})

	assert.Len(t, out, 1)
	assert.Equal(t, 1, out[0].Number)
}

func TestApply_PreservesOrderAndIdempotent(t *testing.T) {
	issues := []types.Issue{
		issueWith(3, []string{"type:bug"}, nil),
		issueWith(1, []string{"type:bug"}, nil),
		issueWith(2, []string{"type:feature"}, nil),
	}
	f := Filters{IncludeTypes: []types.TypeClass{types.TypeBug}}

	once := Apply(issues, f)
	twice := Apply(once, f)

	assert.Equal(t, once, twice)
	assert.Equal(t, []int{3, 1}, []int{once[0].Number, once[1].Number})
}

func TestApply_InProgressNeverSurvivesAnyFilter(t *testing.T) {
	issues := []types.Issue{issueWith(9, []string{"status:in-progress", "type:bug"}, nil)}
	out := Apply(issues, Filters{IncludeTypes: []types.TypeClass{types.TypeBug}})
	assert.Empty(t, out)
}

func TestClassifyPriority_CoercesLegacyFamily(t *testing.T) {
	assert.Equal(t, types.PriorityCritical, ClassifyPriority([]string{"priority:P0"}))
	assert.Equal(t, types.PriorityLow, ClassifyPriority([]string{"priority:P3"}))
	assert.Equal(t, types.PriorityHigh, ClassifyPriority([]string{"priority:high"}))
	assert.Equal(t, types.PriorityNone, ClassifyPriority([]string{"priority:unknown"}))
}
