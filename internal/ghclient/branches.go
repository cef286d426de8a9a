package ghclient

import (
	"context"

	"github.com/google/go-github/v68/github"
)

// DefaultBranch returns the repository's default branch name.
func (c *Client) DefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	var defaultBranch string
	err := c.execute(ctx, "get_repo", func(ctx context.Context) error {
		r, _, innerErr := c.gh.Repositories.Get(ctx, owner, repo)
		if innerErr != nil {
			return innerErr
		}
		defaultBranch = r.GetDefaultBranch()
		return nil
	})
	return defaultBranch, err
}

// CreateBranch creates a new branch named branchName from the repository's
// default branch head.
func (c *Client) CreateBranch(ctx context.Context, owner, repo, branchName string) error {
	defaultBranch, err := c.DefaultBranch(ctx, owner, repo)
	if err != nil {
		return err
	}

	var headSHA string
	err = c.execute(ctx, "get_default_ref", func(ctx context.Context) error {
		ref, _, innerErr := c.gh.Git.GetRef(ctx, owner, repo, "refs/heads/"+defaultBranch)
		if innerErr != nil {
			return innerErr
		}
		headSHA = ref.GetObject().GetSHA()
		return nil
	})
	if err != nil {
		return err
	}

	return c.execute(ctx, "create_ref", func(ctx context.Context) error {
		_, _, innerErr := c.gh.Git.CreateRef(ctx, owner, repo, &github.Reference{
			Ref:    github.Ptr("refs/heads/" + branchName),
			Object: &github.GitObject{SHA: github.Ptr(headSHA)},
		})
		return innerErr
	})
}
