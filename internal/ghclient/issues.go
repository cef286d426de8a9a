package ghclient

import (
	"context"

	"github.com/google/go-github/v68/github"
	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

// ListOpenIssues returns every open issue in the repository, pull requests
// filtered out, across all pages.
func (c *Client) ListOpenIssues(ctx context.Context, owner, repo string) ([]types.Issue, error) {
	var all []types.Issue
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		var page []*github.Issue
		var resp *github.Response
		err := c.execute(ctx, "list_open_issues", func(ctx context.Context) error {
			var innerErr error
			page, resp, innerErr = c.gh.Issues.ListByRepo(ctx, owner, repo, opts)
			return innerErr
		})
		if err != nil {
			return nil, err
		}
		for _, iss := range page {
			if iss.IsPullRequest() {
				continue
			}
			all = append(all, toIssue(owner, repo, iss))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// GetIssue fetches a single issue.
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (types.Issue, error) {
	var out types.Issue
	err := c.execute(ctx, "get_issue", func(ctx context.Context) error {
		iss, _, innerErr := c.gh.Issues.Get(ctx, owner, repo, number)
		if innerErr != nil {
			return innerErr
		}
		out = toIssue(owner, repo, iss)
		return nil
	})
	return out, err
}

// CreateIssue creates an issue with the given title, body, and labels.
func (c *Client) CreateIssue(ctx context.Context, owner, repo, title, body string, labels []string) (types.Issue, error) {
	var out types.Issue
	err := c.execute(ctx, "create_issue", func(ctx context.Context) error {
		iss, _, innerErr := c.gh.Issues.Create(ctx, owner, repo, &github.IssueRequest{
			Title:  github.Ptr(title),
			Body:   github.Ptr(body),
			Labels: &labels,
		})
		if innerErr != nil {
			return innerErr
		}
		out = toIssue(owner, repo, iss)
		return nil
	})
	return out, err
}

// SetIssueState closes or reopens an issue.
func (c *Client) SetIssueState(ctx context.Context, owner, repo string, number int, state types.IssueState) error {
	return c.execute(ctx, "set_issue_state", func(ctx context.Context) error {
		_, _, err := c.gh.Issues.Edit(ctx, owner, repo, number, &github.IssueRequest{
			State: github.Ptr(string(state)),
		})
		return err
	})
}

// AddComment posts a comment on an issue or PR.
func (c *Client) AddComment(ctx context.Context, owner, repo string, number int, body string) error {
	return c.execute(ctx, "add_comment", func(ctx context.Context) error {
		_, _, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
			Body: github.Ptr(body),
		})
		return err
	})
}

// GetIssueParent resolves the advisory sub-issue parent. Any error
// degrades to "no parent" per spec §4.2 — this is an advisory signal
// only, never a hard failure.
func (c *Client) GetIssueParent(ctx context.Context, owner, repo string, number int) (parentNumber int, parentOpen bool) {
	req, err := c.gh.NewRequest("GET", pathf("repos/%s/%s/issues/%d/parent", owner, repo, number), nil)
	if err != nil {
		return 0, false
	}
	var parent github.Issue
	_, err = c.gh.Do(ctx, req, &parent)
	if err != nil {
		return 0, false
	}
	if parent.Number == nil {
		return 0, false
	}
	return parent.GetNumber(), parent.GetState() == "open"
}

func toIssue(owner, repo string, iss *github.Issue) types.Issue {
	labels := make([]string, 0, len(iss.Labels))
	for _, l := range iss.Labels {
		labels = append(labels, l.GetName())
	}
	assignees := make([]string, 0, len(iss.Assignees))
	for _, a := range iss.Assignees {
		assignees = append(assignees, a.GetLogin())
	}
	return types.Issue{
		Owner:     owner,
		Repo:      repo,
		Number:    iss.GetNumber(),
		Title:     iss.GetTitle(),
		Body:      iss.GetBody(),
		State:     types.IssueState(iss.GetState()),
		CreatedAt: iss.GetCreatedAt().Time,
		UpdatedAt: iss.GetUpdatedAt().Time,
		Labels:    labels,
		Assignees: assignees,
		URL:       iss.GetHTMLURL(),
	}
}
