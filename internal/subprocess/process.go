package subprocess

import (
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/notebooklm-sdk-go/internal/config"
	"github.com/wagiedev/notebooklm-sdk-go/internal/errors"
)

// Process is a running notebooklm-mcp child.
type Process struct {
	log              *slog.Logger
	cmd              *exec.Cmd
	stdin            io.WriteCloser
	stderr           *stderrWriter
	transport        *mcp.IOTransport
	terminateTimeout time.Duration

	done    chan struct{} // closed once cmd.Wait has returned
	exitErr error

	mu          sync.Mutex
	terminating bool

	terminateOnce sync.Once
}

var _ config.Process = (*Process)(nil)

func newProcess(
	log *slog.Logger,
	cmd *exec.Cmd,
	stdin io.WriteCloser,
	stdout io.ReadCloser,
	stderr *stderrWriter,
	terminateTimeout time.Duration,
) *Process {
	return &Process{
		log:              log.With("pid", cmd.Process.Pid),
		cmd:              cmd,
		stdin:            stdin,
		stderr:           stderr,
		transport:        &mcp.IOTransport{Reader: stdout, Writer: stdin},
		terminateTimeout: terminateTimeout,
		done:             make(chan struct{}),
	}
}

// Transport returns the stdio stream as an MCP transport.
func (p *Process) Transport() mcp.Transport {
	return p.transport
}

// Pid returns the OS process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Done is closed when the process has exited.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Err returns a *errors.ProcessError if the process exited on its own with
// a failure. It returns nil while the process runs, after a clean exit, and
// after Terminate.
func (p *Process) Err() error {
	select {
	case <-p.done:
		return p.exitErr
	default:
		return nil
	}
}

// Stderr returns the most recent stderr lines joined by newlines.
func (p *Process) Stderr() string {
	return p.stderr.String()
}

// Terminate closes stdin so the server sees EOF, waits up to the terminate
// timeout for it to exit and then kills it. Safe to call multiple times and
// on a process that already exited.
func (p *Process) Terminate() error {
	p.terminateOnce.Do(func() {
		p.mu.Lock()
		p.terminating = true
		p.mu.Unlock()

		// The MCP session may already have closed stdin.
		_ = p.stdin.Close()

		select {
		case <-p.done:
			p.log.Debug("notebooklm-mcp exited after stdin close")

			return
		case <-time.After(p.terminateTimeout):
		}

		p.log.Warn("notebooklm-mcp did not exit in time, killing", "timeout", p.terminateTimeout)

		if err := p.cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
			p.log.Debug("Kill failed", "error", err)
		}

		<-p.done
	})

	return nil
}

// wait reaps the process and records an unexpected failure.
func (p *Process) wait() {
	defer close(p.done)

	err := p.cmd.Wait()
	p.stderr.flush()

	p.mu.Lock()
	terminating := p.terminating
	p.mu.Unlock()

	if terminating {
		p.log.Debug("notebooklm-mcp terminated")

		return
	}

	if err == nil {
		p.log.Info("notebooklm-mcp exited")

		return
	}

	exitCode := -1
	if exitErr, ok := stderrors.AsType[*exec.ExitError](err); ok {
		exitCode = exitErr.ExitCode()
	}

	stderr := p.Stderr()
	p.log.Error("notebooklm-mcp exited with error", "exit_code", exitCode, "stderr", stderr)

	p.exitErr = &errors.ProcessError{ExitCode: exitCode, Stderr: stderr, Err: err}
}
