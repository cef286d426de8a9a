package priority

import (
	"testing"
	"time"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_DeterministicPick(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)

	in42 := CandidateInput{
		IssueNumber: 42,
		Labels:      []string{"priority:high"},
		CreatedAt:   now.Add(-5 * 24 * time.Hour),
	}
	in41 := CandidateInput{
		IssueNumber: 41,
		Labels:      []string{"priority:high"},
		CreatedAt:   now.Add(-7 * 24 * time.Hour),
	}

	s42 := Score(in42, now)
	s41 := Score(in41, now)

	assert.Equal(t, 105.0, s42.TotalScore)
	assert.Equal(t, 107.0, s41.TotalScore)

	scored := SortDescending([]Scored{{Score: s42}, {Score: s41}})
	require.Len(t, scored, 2)
	assert.Equal(t, 41, scored[0].Score.IssueNumber)
	assert.Equal(t, 42, scored[1].Score.IssueNumber)
}

func TestScore_AgeBonusSaturatesAt30(t *testing.T) {
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	in := CandidateInput{
		IssueNumber: 1,
		Labels:      []string{"priority:low"},
		CreatedAt:   now.Add(-90 * 24 * time.Hour),
	}
	s := Score(in, now)
	assert.Equal(t, 30.0, s.AgeBonus)
}

func TestScore_BlockedPenaltyShrinksPriority(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	blocked := CandidateInput{
		IssueNumber: 45,
		Labels:      []string{"priority:high"},
		CreatedAt:   now,
		HasParent:   true,
		ParentOpen:  true,
	}
	unblocked := CandidateInput{
		IssueNumber: 48,
		Labels:      []string{"priority:medium"},
		CreatedAt:   now.Add(-4 * 24 * time.Hour),
	}

	s45 := Score(blocked, now)
	s48 := Score(unblocked, now)

	assert.Equal(t, 10.0, s45.TotalScore)
	assert.Equal(t, 14.0, s48.TotalScore)
	assert.Greater(t, s48.TotalScore, s45.TotalScore)
}

func TestScore_ClosedOrErroredParentNoPenalty(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	in := CandidateInput{
		IssueNumber: 1,
		Labels:      []string{"priority:high"},
		CreatedAt:   now,
		HasParent:   true,
		ParentOpen:  false,
	}
	s := Score(in, now)
	assert.Equal(t, 1.0, s.BlockedPenalty)
}

func TestScore_Deterministic(t *testing.T) {
	now := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	in := CandidateInput{
		IssueNumber: 7,
		Labels:      []string{"priority:critical", "blocking"},
		CreatedAt:   now.Add(-2 * 24 * time.Hour),
	}
	a := Score(in, now)
	b := Score(in, now)
	assert.Equal(t, a, b)
}

func TestScore_TieBreakByIssueNumber(t *testing.T) {
	s1 := Scored{Score: types.PriorityScore{IssueNumber: 10, TotalScore: 50}}
	s2 := Scored{Score: types.PriorityScore{IssueNumber: 5, TotalScore: 50}}

	sorted := SortDescending([]Scored{s1, s2})
	assert.Equal(t, 5, sorted[0].Score.IssueNumber)
	assert.Equal(t, 10, sorted[1].Score.IssueNumber)
}
