package workflowstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

const dirName = "workflow"

// Store is the workflow record store rooted at a base directory.
type Store struct {
	dir string
}

// New returns a Store rooted at <base>/workflow.
func New(base string) *Store {
	return &Store{dir: filepath.Join(base, dirName)}
}

func (s *Store) path(owner, repo string, number int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s_%d.json", owner, repo, number))
}

// Create writes a fresh WorkflowState at phase selection.
func (s *Store) Create(state types.WorkflowState) error {
	return s.save(state)
}

// Get reads the WorkflowState for an issue. Returns WORKFLOW_NOT_FOUND if
// absent.
func (s *Store) Get(owner, repo string, number int) (types.WorkflowState, error) {
	data, err := os.ReadFile(s.path(owner, repo, number))
	if err != nil {
		if os.IsNotExist(err) {
			return types.WorkflowState{}, types.NewOpError(types.CodeWorkflowNotFound, "no workflow state for issue %d", number)
		}
		return types.WorkflowState{}, types.NewOpError(types.CodeInternalError, "read workflow state: %v", err)
	}
	var state types.WorkflowState
	if err := json.Unmarshal(data, &state); err != nil {
		return types.WorkflowState{}, types.NewOpError(types.CodeInternalError, "parse workflow state: %v", err)
	}
	return state, nil
}

// Save persists state as a whole-file replace, via write-temp-then-rename
// so a crash between write and rename never leaves a half-written file in
// place (spec §9 Design Notes).
func (s *Store) Save(state types.WorkflowState) error {
	return s.save(state)
}

func (s *Store) save(state types.WorkflowState) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return types.NewOpError(types.CodeInternalError, "create workflow directory: %v", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return types.NewOpError(types.CodeInternalError, "marshal workflow state: %v", err)
	}

	target := s.path(state.Owner, state.Repo, state.IssueNumber)
	tmp, err := os.CreateTemp(s.dir, "workflow-*.tmp")
	if err != nil {
		return types.NewOpError(types.CodeInternalError, "create temp workflow file: %v", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return types.NewOpError(types.CodeInternalError, "write temp workflow file: %v", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return types.NewOpError(types.CodeInternalError, "sync temp workflow file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return types.NewOpError(types.CodeInternalError, "close temp workflow file: %v", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return types.NewOpError(types.CodeInternalError, "rename workflow file: %v", err)
	}
	return nil
}

// Delete removes the WorkflowState for an issue. Absent is a no-op.
func (s *Store) Delete(owner, repo string, number int) error {
	if err := os.Remove(s.path(owner, repo, number)); err != nil && !os.IsNotExist(err) {
		return types.NewOpError(types.CodeInternalError, "delete workflow state: %v", err)
	}
	return nil
}
