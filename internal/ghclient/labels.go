package ghclient

import (
	"context"

	"github.com/google/go-github/v68/github"
)

// LabelSpec is one label this engine manages: name, color, description.
type LabelSpec struct {
	Name        string
	Color       string
	Description string
}

// ManagedLabels is the fixed three-family label set the engine creates on
// demand, per spec §6. Only the canonical priority family is written here;
// the legacy priority:P0..P3 family is accepted as input but never
// created by this engine (see DESIGN.md Open Question #1).
var ManagedLabels = []LabelSpec{
	{Name: "priority:critical", Color: "b60205", Description: "Critical priority"},
	{Name: "priority:high", Color: "d93f0b", Description: "High priority"},
	{Name: "priority:medium", Color: "fbca04", Description: "Medium priority"},
	{Name: "priority:low", Color: "c2e0c6", Description: "Low priority"},
	{Name: "type:bug", Color: "ee0701", Description: "Bug"},
	{Name: "type:feature", Color: "0e8a16", Description: "Feature"},
	{Name: "type:chore", Color: "cfd3d7", Description: "Chore"},
	{Name: "type:docs", Color: "0075ca", Description: "Documentation"},
	{Name: "status:backlog", Color: "c5def5", Description: "Backlog"},
	{Name: "status:in-progress", Color: "fef2c0", Description: "In progress"},
	{Name: "status:in-review", Color: "bfd4f2", Description: "In review"},
	{Name: "status:blocked", Color: "e99695", Description: "Blocked"},
}

// EnsureLabelsExist creates every managed label that is missing from the
// repository. Creating a label that already exists is treated as success
// (idempotent), matching spec §4.2's "create-if-missing" contract.
func (c *Client) EnsureLabelsExist(ctx context.Context, owner, repo string) error {
	existing := map[string]bool{}
	err := c.execute(ctx, "list_labels", func(ctx context.Context) error {
		opts := &github.ListOptions{PerPage: 100}
		for {
			page, resp, innerErr := c.gh.Issues.ListLabels(ctx, owner, repo, opts)
			if innerErr != nil {
				return innerErr
			}
			for _, l := range page {
				existing[l.GetName()] = true
			}
			if resp == nil || resp.NextPage == 0 {
				return nil
			}
			opts.Page = resp.NextPage
		}
	})
	if err != nil {
		return err
	}

	for _, spec := range ManagedLabels {
		if existing[spec.Name] {
			continue
		}
		createErr := c.execute(ctx, "create_label", func(ctx context.Context) error {
			_, _, innerErr := c.gh.Issues.CreateLabel(ctx, owner, repo, &github.Label{
				Name:        github.Ptr(spec.Name),
				Color:       github.Ptr(spec.Color),
				Description: github.Ptr(spec.Description),
			})
			if innerErr != nil && isAlreadyExists(innerErr) {
				return nil
			}
			return innerErr
		})
		if createErr != nil {
			return createErr
		}
	}
	return nil
}

// AddLabels adds labels to an issue. Adding an already-present label is a
// successful no-op (GitHub's API itself is idempotent here).
func (c *Client) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	return c.execute(ctx, "add_labels", func(ctx context.Context) error {
		_, _, err := c.gh.Issues.AddLabelsToIssue(ctx, owner, repo, number, labels)
		return err
	})
}

// RemoveLabel removes one label from an issue. Removing an absent label is
// a successful no-op.
func (c *Client) RemoveLabel(ctx context.Context, owner, repo string, number int, label string) error {
	err := c.execute(ctx, "remove_label", func(ctx context.Context) error {
		_, err := c.gh.Issues.RemoveLabelForIssue(ctx, owner, repo, number, label)
		return err
	})
	if isNotFound(err) {
		return nil
	}
	return err
}

// ReplaceLabel removes `from` and adds `to`, tolerating either side being
// already in the desired state.
func (c *Client) ReplaceLabel(ctx context.Context, owner, repo string, number int, from, to string) error {
	if err := c.RemoveLabel(ctx, owner, repo, number, from); err != nil {
		return err
	}
	return c.AddLabels(ctx, owner, repo, number, []string{to})
}

func isAlreadyExists(err error) bool {
	var ghErr *github.ErrorResponse
	if as(err, &ghErr) {
		return ghErr.Response != nil && ghErr.Response.StatusCode == 422
	}
	return false
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	if as(err, &ghErr) {
		return ghErr.Response != nil && ghErr.Response.StatusCode == 404
	}
	return false
}
