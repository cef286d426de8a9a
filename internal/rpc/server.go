package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/steiner385/mcp-git-issue-priority/internal/engine"
	"github.com/steiner385/mcp-git-issue-priority/internal/types"
)

// Server dispatches framed requests to an Engine and writes framed
// responses, one line at a time. Per spec §9's scheduling model, a Server
// processes one request at a time from its hosting transport; it does not
// fan out concurrent operations.
type Server struct {
	Engine *engine.Engine
}

// NewServer wraps an Engine for RPC dispatch.
func NewServer(e *engine.Engine) *Server {
	return &Server{Engine: e}
}

// Serve reads newline-delimited Requests from r and writes newline-
// delimited Responses to w until r is exhausted or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReaderSize(r, 64*1024)
	writer := bufio.NewWriter(w)
	defer writer.Flush()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			resp := s.dispatchLine(ctx, line)
			if err := writeResponse(writer, resp); err != nil {
				return err
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func writeResponse(w *bufio.Writer, resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}

func (s *Server) dispatchLine(ctx context.Context, line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Response{Success: false, Error: fmt.Sprintf("malformed request: %v", err), Code: string(types.CodeInternalError)}
	}
	resp := s.dispatch(ctx, req)
	resp.RequestID = req.RequestID
	return resp
}

func (s *Server) dispatch(ctx context.Context, req Request) Response {
	switch req.Operation {
	case OpCreateIssue:
		return call(ctx, req, s.Engine.CreateIssue)
	case OpListBacklog:
		return call(ctx, req, s.Engine.ListBacklog)
	case OpSelectNextIssue:
		return call(ctx, req, s.Engine.SelectNextIssue)
	case OpAdvanceWorkflow:
		return call(ctx, req, s.Engine.AdvanceWorkflow)
	case OpReleaseLock:
		return call(ctx, req, s.Engine.ReleaseLock)
	case OpForceClaim:
		return call(ctx, req, s.Engine.ForceClaim)
	case OpGetWorkflowStatus:
		return call(ctx, req, s.Engine.GetWorkflowStatus)
	case OpSyncBacklogLabels:
		return call(ctx, req, s.Engine.SyncBacklogLabels)
	case OpGetPRStatus:
		return call(ctx, req, s.Engine.GetPRStatus)
	case OpBulkUpdateIssues:
		return call(ctx, req, s.Engine.BulkUpdateIssues)
	case OpImplementBatch:
		return call(ctx, req, s.Engine.ImplementBatch)
	case OpBatchContinue:
		return call(ctx, req, s.Engine.BatchContinue)
	default:
		return Response{Success: false, Error: fmt.Sprintf("unknown operation: %s", req.Operation), Code: string(types.CodeInternalError)}
	}
}

// call unmarshals req.Args into A, invokes op, and marshals the result
// (or error) into a Response. Generic over the per-operation Args/Response
// pair so dispatch stays a flat switch instead of twelve hand-rolled
// unmarshal blocks.
func call[A any, R any](ctx context.Context, req Request, op func(context.Context, A) (R, error)) Response {
	var args A
	if len(req.Args) > 0 {
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return Response{Success: false, Error: fmt.Sprintf("invalid args: %v", err), Code: string(types.CodeInternalError)}
		}
	}

	result, err := op(ctx, args)
	if err != nil {
		opErr := types.AsOpError(err)
		return Response{
			Success: false,
			Error:   opErr.Message,
			Code:    string(opErr.Code),
			Reason:  opErr.Reason,
			Details: opErr.Details,
		}
	}

	data, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		return Response{Success: false, Error: fmt.Sprintf("marshal response: %v", marshalErr), Code: string(types.CodeInternalError)}
	}
	return Response{Success: true, Data: data}
}
