// Package engine implements C7: the twelve externally addressable tool
// operations composing the priority model, remote client, and stores.
// Handler shape (typed-args-unmarshal -> business logic -> typed
// response) is adapted from BeadsLog's internal/rpc/server_core.go
// handlers; the per-operation Args/Response struct convention is adapted
// from internal/rpc/protocol.go.
package engine

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/steiner385/mcp-git-issue-priority/internal/audit"
	"github.com/steiner385/mcp-git-issue-priority/internal/batchstore"
	"github.com/steiner385/mcp-git-issue-priority/internal/ghclient"
	"github.com/steiner385/mcp-git-issue-priority/internal/lockstore"
	"github.com/steiner385/mcp-git-issue-priority/internal/workflowstore"
)

// Engine is the explicit, non-global value every tool operation is a
// method of. Built once by internal/bootstrap and threaded through the
// transport layer's operation registry.
type Engine struct {
	Client    *ghclient.Client
	Locks     *lockstore.Store
	Workflows *workflowstore.Store
	Batches   *batchstore.Store
	Audit     *audit.Log
	Logger    *zap.SugaredLogger
	SessionID string
	PID       int

	DefaultOwner    string
	DefaultRepo     string
	DefaultRepoFull string
	DefaultPriority string
	DefaultType     string

	validate *validator.Validate
}

// now is overridable in tests; production code always calls time.Now.
var now = time.Now

func (e *Engine) validator() *validator.Validate {
	if e.validate == nil {
		e.validate = validator.New(validator.WithRequiredStructEnabled())
	}
	return e.validate
}

// resolveRepository applies spec §4.7's precedence: explicit argument ->
// GITHUB_REPOSITORY -> GITHUB_OWNER+GITHUB_REPO -> REPO_REQUIRED.
func (e *Engine) resolveRepository(explicit string) (owner, repo string, err error) {
	if explicit != "" {
		o, r, splitErr := splitRepository(explicit)
		if splitErr != nil {
			return "", "", typesRepoRequired(splitErr.Error())
		}
		return o, r, nil
	}
	if e.DefaultRepoFull != "" {
		o, r, splitErr := splitRepository(e.DefaultRepoFull)
		if splitErr != nil {
			return "", "", typesRepoRequired(splitErr.Error())
		}
		return o, r, nil
	}
	if e.DefaultOwner != "" && e.DefaultRepo != "" {
		return e.DefaultOwner, e.DefaultRepo, nil
	}
	return "", "", typesRepoRequired("no repository argument and no GITHUB_REPOSITORY/GITHUB_OWNER+GITHUB_REPO set")
}
