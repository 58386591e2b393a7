package servertest

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/notebooklm-sdk-go/internal/config"
	"github.com/wagiedev/notebooklm-sdk-go/internal/errors"
)

// Process is the handle of one in-memory server.
type Process struct {
	transport *faultyTransport
	server    *mcp.ServerSession

	terminated    atomic.Bool
	terminateOnce sync.Once

	done     chan struct{}
	exitOnce sync.Once
	mu       sync.Mutex
	exitErr  error
	stderr   string
}

var _ config.Process = (*Process)(nil)

// Transport implements config.Process.
func (p *Process) Transport() mcp.Transport {
	return p.transport
}

// Pid implements config.Process. There is no OS process.
func (p *Process) Pid() int {
	return 0
}

// Stderr implements config.Process.
func (p *Process) Stderr() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.stderr
}

// Done implements config.Process.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Err implements config.Process.
func (p *Process) Err() error {
	select {
	case <-p.done:
	default:
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.exitErr
}

// Terminate implements config.Process.
func (p *Process) Terminate() error {
	p.terminateOnce.Do(func() {
		p.terminated.Store(true)
		p.exit(nil)
		_ = p.server.Close()
	})

	return nil
}

func (p *Process) exit(err error) {
	p.exitOnce.Do(func() {
		p.mu.Lock()
		p.exitErr = err
		p.mu.Unlock()

		close(p.done)
	})
}

// Terminated reports whether Terminate was called.
func (p *Process) Terminated() bool {
	return p.terminated.Load()
}

// BreakPipe simulates the server dying mid-session: further writes fail
// with EPIPE and the stream is closed.
func (p *Process) BreakPipe() {
	p.transport.breakPipe()
}

// Crash simulates the process exiting on its own with exitCode after
// writing stderr: the exit is recorded and the client's stream ends.
// Safe to call from inside a tool handler.
func (p *Process) Crash(exitCode int, stderr string) {
	p.mu.Lock()
	p.stderr = stderr
	p.mu.Unlock()

	p.exit(&errors.ProcessError{ExitCode: exitCode, Stderr: stderr})
	p.transport.closeConn()
}

type faultyTransport struct {
	inner mcp.Transport

	mu   sync.Mutex
	conn *faultyConn
}

func (t *faultyTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	conn, err := t.inner.Connect(ctx)
	if err != nil {
		return nil, err
	}

	fc := &faultyConn{Connection: conn}

	t.mu.Lock()
	t.conn = fc
	t.mu.Unlock()

	return fc, nil
}

func (t *faultyTransport) closeConn() {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn != nil {
		_ = conn.Connection.Close()
	}
}

func (t *faultyTransport) breakPipe() {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn != nil {
		conn.broken.Store(true)
		_ = conn.Connection.Close()
	}
}

type faultyConn struct {
	mcp.Connection

	broken atomic.Bool
}

func (c *faultyConn) Write(ctx context.Context, msg jsonrpc.Message) error {
	if c.broken.Load() {
		return &os.PathError{Op: "write", Path: "|1", Err: syscall.EPIPE}
	}

	return c.Connection.Write(ctx, msg)
}
