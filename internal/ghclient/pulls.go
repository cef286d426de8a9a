package ghclient

import (
	"context"

	"github.com/google/go-github/v68/github"
)

// PRState is the engine's tagged view of a pull request's lifecycle.
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
	PRStateMerged PRState = "merged"
)

// CheckStatus is the aggregated check-run conclusion across a commit.
type CheckStatus string

const (
	CheckNone    CheckStatus = "none"
	CheckFailing CheckStatus = "failing"
	CheckPending CheckStatus = "pending"
	CheckPassing CheckStatus = "passing"
)

// ReviewStatus is the aggregated review conclusion across a pull request.
type ReviewStatus string

const (
	ReviewNone             ReviewStatus = "none"
	ReviewApproved         ReviewStatus = "approved"
	ReviewChangesRequested ReviewStatus = "changesRequested"
)

// PRStatus is the full get_pr_status payload.
type PRStatus struct {
	Number    int          `json:"number"`
	State     PRState      `json:"state"`
	Checks    CheckStatus  `json:"checks"`
	Review    ReviewStatus `json:"review"`
	Reviewers []string     `json:"reviewers"`
	URL       string       `json:"url"`
}

// CreatePullRequest opens a PR and returns its number and URL.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo, branch, base, title, body string) (number int, url string, err error) {
	err = c.execute(ctx, "create_pull_request", func(ctx context.Context) error {
		pr, _, innerErr := c.gh.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
			Title: github.Ptr(title),
			Head:  github.Ptr(branch),
			Base:  github.Ptr(base),
			Body:  github.Ptr(body),
		})
		if innerErr != nil {
			return innerErr
		}
		number = pr.GetNumber()
		url = pr.GetHTMLURL()
		return nil
	})
	return number, url, err
}

// GetPRStatus aggregates PR state, check-run conclusions, and review
// states per spec §4.2's mapping rules.
func (c *Client) GetPRStatus(ctx context.Context, owner, repo string, number int) (PRStatus, error) {
	var pr *github.PullRequest
	err := c.execute(ctx, "get_pull_request", func(ctx context.Context) error {
		var innerErr error
		pr, _, innerErr = c.gh.PullRequests.Get(ctx, owner, repo, number)
		return innerErr
	})
	if err != nil {
		return PRStatus{}, err
	}

	state := mapPRState(pr)

	var runs []*github.CheckRun
	err = c.execute(ctx, "list_check_runs", func(ctx context.Context) error {
		result, _, innerErr := c.gh.Checks.ListCheckRunsForRef(ctx, owner, repo, pr.GetHead().GetSHA(), nil)
		if innerErr != nil {
			return innerErr
		}
		runs = result.CheckRuns
		return nil
	})
	if err != nil {
		return PRStatus{}, err
	}

	var reviews []*github.PullRequestReview
	err = c.execute(ctx, "list_reviews", func(ctx context.Context) error {
		var innerErr error
		reviews, _, innerErr = c.gh.PullRequests.ListReviews(ctx, owner, repo, number, nil)
		return innerErr
	})
	if err != nil {
		return PRStatus{}, err
	}

	review, reviewers := aggregateReviews(reviews)

	return PRStatus{
		Number:    number,
		State:     state,
		Checks:    aggregateChecks(runs),
		Review:    review,
		Reviewers: reviewers,
		URL:       pr.GetHTMLURL(),
	}, nil
}

func mapPRState(pr *github.PullRequest) PRState {
	if pr.GetState() == "closed" && pr.GetMerged() {
		return PRStateMerged
	}
	if pr.GetState() == "closed" {
		return PRStateClosed
	}
	return PRStateOpen
}

func aggregateChecks(runs []*github.CheckRun) CheckStatus {
	if len(runs) == 0 {
		return CheckNone
	}
	anyPending := false
	for _, r := range runs {
		switch r.GetConclusion() {
		case "failure", "timed_out", "cancelled":
			return CheckFailing
		}
		switch r.GetStatus() {
		case "queued", "in_progress":
			anyPending = true
		}
	}
	if anyPending {
		return CheckPending
	}
	return CheckPassing
}

func aggregateReviews(reviews []*github.PullRequestReview) (ReviewStatus, []string) {
	seen := map[string]bool{}
	var reviewers []string
	status := ReviewNone
	for _, r := range reviews {
		login := r.GetUser().GetLogin()
		if login != "" && !seen[login] {
			seen[login] = true
			reviewers = append(reviewers, login)
		}
		switch r.GetState() {
		case "APPROVED":
			if status != ReviewChangesRequested {
				status = ReviewApproved
			}
		case "CHANGES_REQUESTED":
			status = ReviewChangesRequested
		}
	}
	return status, reviewers
}
