// Package config provides configuration types for the NotebookLM SDK.
package config

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// LaunchSpec describes how to start the notebooklm-mcp subprocess.
// It is resolved once at client construction and never mutated afterwards.
type LaunchSpec struct {
	// Executable is an explicit path or a bare command name to discover.
	Executable string
	// Args are passed to the executable verbatim.
	Args []string
	// Env is the complete environment for the child, in KEY=VALUE form.
	Env []string
}

// Launcher starts the notebooklm-mcp subprocess for a new session.
// Implement this to provide custom launchers for testing, mocking,
// or alternative ways of reaching an MCP server.
//
// The default implementation is subprocess.Supervisor.
// Custom launchers can be injected via Options.Launcher.
type Launcher interface {
	// Launch starts a new process for spec. The returned process must not
	// be tied to ctx: cancelling ctx after Launch returns has no effect on it.
	Launch(ctx context.Context, spec *LaunchSpec) (Process, error)
}

// Process is a running server owned by exactly one session.
type Process interface {
	// Transport returns the byte stream carrying the MCP protocol.
	// It is connected at most once.
	Transport() mcp.Transport

	// Pid returns the OS process id, or 0 when there is no OS process.
	Pid() int

	// Terminate closes the input stream, waits for a grace period and then
	// forcibly stops the process. Safe to call multiple times.
	Terminate() error

	// Stderr returns the most recent diagnostic output of the process.
	Stderr() string

	// Done is closed when the process has exited.
	Done() <-chan struct{}

	// Err returns a *errors.ProcessError once the process has exited on its
	// own with a failure, and nil otherwise.
	Err() error
}
