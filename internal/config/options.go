package config

import (
	"log/slog"
	"maps"
	"time"
)

const (
	// DefaultInitializeTimeout bounds subprocess launch plus the MCP handshake.
	DefaultInitializeTimeout = 60 * time.Second

	// DefaultTerminateTimeout is the grace period between closing stdin and
	// killing the subprocess.
	DefaultTerminateTimeout = 5 * time.Second
)

// Options configures the NotebookLM client.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// ExecutablePath is the explicit path to the notebooklm-mcp binary.
	// If empty, the binary is searched in PATH and common install locations.
	ExecutablePath string

	// Profile selects a named credential profile on the server.
	// Passed as --profile when set.
	Profile string

	// ConfigDir isolates credential state by overriding HOME for the
	// subprocess. Use one directory per tenant.
	ConfigDir string

	// Env provides additional environment variables for the subprocess.
	Env map[string]string

	// Stderr is a callback invoked for each line the subprocess writes to stderr.
	Stderr func(string)

	// InitializeTimeout bounds launch plus handshake.
	// If zero, defaults to DefaultInitializeTimeout.
	InitializeTimeout time.Duration

	// TerminateTimeout is the graceful shutdown window.
	// If zero, defaults to DefaultTerminateTimeout.
	TerminateTimeout time.Duration

	// ValidateArguments checks operation arguments against the remote
	// tool's input schema before sending them.
	ValidateArguments bool

	// Launcher allows injecting a custom launcher implementation.
	// If nil, the default subprocess supervisor is used.
	// This field is not serialized.
	Launcher Launcher `json:"-" toml:"-"`
}

// Clone returns a copy of o that shares no mutable state with it.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}

	c := *o
	c.Env = maps.Clone(o.Env)

	return &c
}

// EffectiveInitializeTimeout returns InitializeTimeout or its default.
func (o *Options) EffectiveInitializeTimeout() time.Duration {
	if o.InitializeTimeout > 0 {
		return o.InitializeTimeout
	}

	return DefaultInitializeTimeout
}

// EffectiveTerminateTimeout returns TerminateTimeout or its default.
func (o *Options) EffectiveTerminateTimeout() time.Duration {
	if o.TerminateTimeout > 0 {
		return o.TerminateTimeout
	}

	return DefaultTerminateTimeout
}
