package engine

import (
	"context"

	"github.com/steiner385/mcp-git-issue-priority/internal/priority"
	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const toolCreateIssue = "create_issue"

// CreateIssue validates write access, ensures the managed label families
// exist, formats the body from the structured fields unless a raw body is
// supplied, and creates the issue with its priority/type/backlog labels.
func (e *Engine) CreateIssue(ctx context.Context, args CreateIssueArgs) (resp CreateIssueResponse, opErr error) {
	start := now()
	owner, repo, err := e.resolveRepository(args.Repository)
	if err != nil {
		return resp, err
	}
	defer func() { e.auditLog(toolCreateIssue, owner+"/"+repo, nil, "", outcomeFor(opErr), start, opErr, nil) }()

	if err := e.validator().Struct(args); err != nil {
		return resp, types.NewOpError(types.CodeInternalError, "invalid arguments: %v", err)
	}

	writable, err := e.Client.VerifyWriteAccess(ctx, owner, repo)
	if err != nil {
		return resp, types.NewOpError(types.CodeGitHubAPIError, "verify write access: %v", err)
	}
	if !writable {
		return resp, types.NewOpError(types.CodeNoWriteAccess, "no write access to %s/%s", owner, repo)
	}

	if err := e.Client.EnsureLabelsExist(ctx, owner, repo); err != nil {
		return resp, types.NewOpError(types.CodeGitHubAPIError, "ensure labels exist: %v", err)
	}

	body := args.Body
	if body == "" {
		body = formatIssueBody(args.Title, args.Context, args.AcceptanceCriteria, args.TechnicalNotes)
	}

	priorityClass := priority.NormalizePriorityArg(args.Priority)
	if priorityClass == types.PriorityNone && args.Priority == "" {
		priorityClass = priority.NormalizePriorityArg(e.DefaultPriority)
	}
	typeClass := types.TypeClass(args.Type)
	if typeClass == types.TypeNone && args.Type == "" {
		typeClass = types.TypeClass(e.DefaultType)
	}

	labels := []string{"status:backlog"}
	if priorityClass != types.PriorityNone {
		labels = append(labels, priority.CanonicalPriorityLabel(priorityClass))
	}
	if typeClass != types.TypeNone {
		labels = append(labels, "type:"+string(typeClass))
	}

	issue, err := e.Client.CreateIssue(ctx, owner, repo, args.Title, body, labels)
	if err != nil {
		return resp, types.NewOpError(types.CodeGitHubAPIError, "create issue: %v", err)
	}

	resp.Issue = issue
	return resp, nil
}

func outcomeFor(err error) types.Outcome {
	if err != nil {
		return types.OutcomeFailure
	}
	return types.OutcomeSuccess
}
