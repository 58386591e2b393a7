package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/notebooklm-sdk-go/internal/config"
)

// Session is one connected MCP session backed by one process.
// The session exclusively owns its process.
type Session struct {
	id      string
	log     *slog.Logger
	process config.Process
	cs      *mcp.ClientSession

	requests atomic.Uint64
	closing  atomic.Bool

	mu     sync.Mutex
	broken bool
	cause  error
	tools  map[string]*mcp.Tool

	closeOnce sync.Once
}

// ID returns the session's ULID.
func (s *Session) ID() string {
	return s.id
}

// Process returns the process backing this session.
func (s *Session) Process() config.Process {
	return s.process
}

// Requests returns how many operations were sent on this session.
func (s *Session) Requests() uint64 {
	return s.requests.Load()
}

// InitializeResult returns the server's answer to the handshake.
func (s *Session) InitializeResult() *mcp.InitializeResult {
	return s.cs.InitializeResult()
}

// Broken reports whether the session's stream has failed.
func (s *Session) Broken() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.broken
}

// Cause returns the failure that broke the session, or nil.
func (s *Session) Cause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cause
}

type callResult struct {
	res *mcp.CallToolResult
	err error
}

// CallTool sends one tools/call request and waits for its reply or for ctx
// to end. The request is never cancelled on the server: a caller that stops
// waiting gets ctx.Err() and the late reply is discarded.
func (s *Session) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	n := s.requests.Add(1)
	s.log.Debug("Calling tool", "operation", name, "request", n)

	results := make(chan callResult, 1)

	go func() {
		res, err := s.cs.CallTool(context.WithoutCancel(ctx), &mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		})
		results <- callResult{res: res, err: err}
	}()

	select {
	case r := <-results:
		return r.res, r.err
	case <-ctx.Done():
		s.log.Debug("Caller stopped waiting", "operation", name, "request", n, "error", ctx.Err())

		return nil, ctx.Err()
	}
}

// Tools returns the server's tool catalog keyed by name. The first
// successful listing is cached for the life of the session.
func (s *Session) Tools(ctx context.Context) (map[string]*mcp.Tool, error) {
	s.mu.Lock()
	cached := s.tools
	s.mu.Unlock()

	if cached != nil {
		return cached, nil
	}

	tools := make(map[string]*mcp.Tool)
	params := &mcp.ListToolsParams{}

	for {
		res, err := s.cs.ListTools(ctx, params)
		if err != nil {
			return nil, err
		}

		for _, t := range res.Tools {
			tools[t.Name] = t
		}

		if res.NextCursor == "" {
			break
		}

		params = &mcp.ListToolsParams{Cursor: res.NextCursor}
	}

	s.mu.Lock()
	s.tools = tools
	s.mu.Unlock()

	return tools, nil
}

// exitGrace bounds how long a failed request waits for the process to be
// reaped before the failure is reported without its exit status.
const exitGrace = 250 * time.Millisecond

// ExitError returns the process's *errors.ProcessError if it exits within
// wait, and nil if it is still running or exited cleanly.
func (s *Session) ExitError(wait time.Duration) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-s.process.Done():
		return s.process.Err()
	case <-timer.C:
		return nil
	}
}

// WithExitError joins the process's exit failure, if any, onto a stream
// error. It waits briefly for the process to be reaped.
func (s *Session) WithExitError(err error) error {
	if exitErr := s.ExitError(exitGrace); exitErr != nil {
		return errors.Join(err, exitErr)
	}

	return err
}

// markBroken records the first stream failure. Failures during an
// intentional close are ignored.
func (s *Session) markBroken(cause error) {
	if s.closing.Load() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.broken {
		return
	}

	s.broken = true
	s.cause = cause

	s.log.Warn("Session broken", "error", cause, "stderr", s.process.Stderr())
}

// watch marks the session broken when the MCP session ends on its own,
// for example because the process exited.
func (s *Session) watch() {
	err := s.cs.Wait()
	if err == nil {
		err = io.EOF
	}

	if s.closing.Load() {
		return
	}

	exitErr := s.ExitError(exitGrace)
	if exitErr == nil {
		s.markBroken(err)

		return
	}

	s.markBroken(errors.Join(err, exitErr))

	// A read or write usually fails before the process is reaped.
	s.mu.Lock()
	if s.broken && !errors.Is(s.cause, exitErr) {
		s.cause = errors.Join(s.cause, exitErr)
	}
	s.mu.Unlock()
}

// close shuts the MCP session (and with it the stream) and then
// terminates the process.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.closing.Store(true)

		if s.cs != nil {
			if err := s.cs.Close(); err != nil {
				s.log.Debug("Close MCP session", "error", err)
			}
		}

		if err := s.process.Terminate(); err != nil {
			s.log.Debug("Terminate process", "error", err)
		}

		s.log.Info("Session closed", "requests", s.requests.Load())
	})
}

// trackedTransport reports stream failures to its session synchronously,
// before the failing call returns to its caller.
type trackedTransport struct {
	inner     mcp.Transport
	onFailure func(error)
}

func (t *trackedTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	conn, err := t.inner.Connect(ctx)
	if err != nil {
		return nil, err
	}

	return &trackedConn{Connection: conn, onFailure: t.onFailure}, nil
}

type trackedConn struct {
	mcp.Connection

	onFailure func(error)
}

func (c *trackedConn) Read(ctx context.Context) (jsonrpc.Message, error) {
	msg, err := c.Connection.Read(ctx)
	if err != nil {
		c.fail(ctx, err)
	}

	return msg, err
}

func (c *trackedConn) Write(ctx context.Context, msg jsonrpc.Message) error {
	err := c.Connection.Write(ctx, msg)
	if err != nil {
		c.fail(ctx, err)
	}

	return err
}

// fail ignores errors that only reflect the caller's own context ending.
func (c *trackedConn) fail(ctx context.Context, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return
	}

	c.onFailure(err)
}
