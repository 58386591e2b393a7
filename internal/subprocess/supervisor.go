package subprocess

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/wagiedev/notebooklm-sdk-go/internal/cli"
	"github.com/wagiedev/notebooklm-sdk-go/internal/config"
	"github.com/wagiedev/notebooklm-sdk-go/internal/errors"
)

// Supervisor launches notebooklm-mcp subprocesses. It is stateless between
// launches; every Launch yields an independent Process.
type Supervisor struct {
	log              *slog.Logger
	stderrCallback   func(string)
	terminateTimeout time.Duration
}

// Compile-time verification that Supervisor implements the Launcher interface.
var _ config.Launcher = (*Supervisor)(nil)

// NewSupervisor creates a supervisor using the stderr callback and
// terminate timeout from options.
func NewSupervisor(log *slog.Logger, options *config.Options) *Supervisor {
	return &Supervisor{
		log:              log.With("component", "subprocess"),
		stderrCallback:   options.Stderr,
		terminateTimeout: options.EffectiveTerminateTimeout(),
	}
}

// Launch discovers the executable named by spec and starts it with stdin and
// stdout carrying the MCP stream.
//
// The process is started with exec.Command rather than exec.CommandContext:
// its lifetime belongs to the session, not to the request that happened to
// trigger the connect. ctx only bounds discovery.
//
// Returns *errors.ExecutableNotFoundError when the binary cannot be located
// and *errors.ProcessStartError when it cannot be started.
func (s *Supervisor) Launch(ctx context.Context, spec *config.LaunchSpec) (config.Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := cli.NewDiscoverer(&cli.Config{
		Executable: spec.Executable,
		Logger:     s.log,
	}).Discover(ctx)
	if err != nil {
		return nil, err
	}

	s.log.Info("Starting notebooklm-mcp subprocess", "path", path, "args", spec.Args)

	//nolint:gosec // G204: launching the configured server binary is the purpose of this package
	cmd := exec.Command(path, spec.Args...)
	cmd.Env = spec.Env
	cmd.WaitDelay = s.terminateTimeout

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &errors.ProcessStartError{Path: path, Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &errors.ProcessStartError{Path: path, Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	stderr := newStderrWriter(s.stderrCallback)
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		s.log.Error("Failed to start notebooklm-mcp", "path", path, "error", err)

		return nil, &errors.ProcessStartError{Path: path, Err: err}
	}

	p := newProcess(s.log, cmd, stdin, stdout, stderr, s.terminateTimeout)
	go p.wait()

	s.log.Info("notebooklm-mcp subprocess started", "pid", p.Pid())

	return p, nil
}
