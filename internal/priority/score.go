package priority

import (
	"sort"
	"time"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const maxAgeBonusDays = 30

var basePointsByClass = map[types.PriorityClass]float64{
	types.PriorityCritical: 1000,
	types.PriorityHigh:     100,
	types.PriorityMedium:   10,
	types.PriorityLow:      1,
	types.PriorityNone:     0,
}

// CandidateInput is the set of facts Score needs about one issue. It
// exists so scoring never reaches back into the remote client: every input
// is resolved by the caller first, which is what keeps Score pure and
// testable without a network.
type CandidateInput struct {
	IssueNumber int
	Labels      []string
	CreatedAt   time.Time
	ParentOpen  bool
	HasParent   bool
}

// Score computes the deterministic PriorityScore for one candidate as of
// now. Two calls with equal input and equal now produce an identical
// TotalScore. The age bonus counts whole 24-hour periods since creation,
// so it can step up at any time of day, not only at midnight.
func Score(in CandidateInput, now time.Time) types.PriorityScore {
	class := ClassifyPriority(in.Labels)
	basePoints := basePointsByClass[class]

	ageDays := now.UTC().Sub(in.CreatedAt.UTC()).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	ageBonus := float64(int(ageDays))
	if ageBonus > maxAgeBonusDays {
		ageBonus = maxAgeBonusDays
	}

	blockingMultiplier := 1.0
	if HasBlockingLabel(in.Labels) {
		blockingMultiplier = 1.5
	}

	blockedPenalty := 1.0
	if in.HasParent && in.ParentOpen {
		blockedPenalty = 0.1
	}

	total := (basePoints + ageBonus) * blockingMultiplier * blockedPenalty

	return types.PriorityScore{
		IssueNumber:        in.IssueNumber,
		BasePoints:         basePoints,
		AgeBonus:           ageBonus,
		BlockingMultiplier: blockingMultiplier,
		BlockedPenalty:     blockedPenalty,
		TotalScore:         total,
	}
}

// Scored pairs an issue with its computed score, for sorting.
type Scored struct {
	Issue types.Issue
	Score types.PriorityScore
}

// ScoreAll scores every issue in issues as of now.
func ScoreAll(issues []types.Issue, now time.Time) []Scored {
	out := make([]Scored, 0, len(issues))
	for _, iss := range issues {
		in := CandidateInput{
			IssueNumber: iss.Number,
			Labels:      iss.Labels,
			CreatedAt:   iss.CreatedAt,
			ParentOpen:  iss.ParentOpen,
			HasParent:   iss.ParentNumber != 0,
		}
		out = append(out, Scored{Issue: iss, Score: Score(in, now)})
	}
	return out
}

// SortDescending sorts scored candidates by strictly descending
// TotalScore, tie-broken by ascending issue number. It mutates and
// returns the same slice.
func SortDescending(scored []Scored) []Scored {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score.TotalScore != b.Score.TotalScore {
			return a.Score.TotalScore > b.Score.TotalScore
		}
		return a.Issue.Number < b.Issue.Number
	})
	return scored
}
