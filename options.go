package notebooklm

import (
	"log/slog"
	"maps"
	"time"

	"github.com/wagiedev/notebooklm-sdk-go/internal/config"
)

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to a fresh Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithExecutablePath sets the explicit path to the notebooklm-mcp binary.
// If not set, the binary is searched in PATH and common install locations.
func WithExecutablePath(path string) Option {
	return func(o *Options) {
		o.ExecutablePath = path
	}
}

// WithProfile selects a named credential profile on the server.
func WithProfile(profile string) Option {
	return func(o *Options) {
		o.Profile = profile
	}
}

// WithConfigDir isolates credential state by running the server with HOME
// set to dir. Give each tenant its own directory.
func WithConfigDir(dir string) Option {
	return func(o *Options) {
		o.ConfigDir = dir
	}
}

// WithEnv provides additional environment variables for the subprocess.
// Repeated calls merge; later values win.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string, len(env))
		}

		maps.Copy(o.Env, env)
	}
}

// ===== Process =====

// WithStderr sets a callback invoked for each line the server writes to
// stderr.
func WithStderr(handler func(string)) Option {
	return func(o *Options) {
		o.Stderr = handler
	}
}

// WithInitializeTimeout bounds subprocess launch plus the MCP handshake.
// Default: 60s.
func WithInitializeTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.InitializeTimeout = timeout
	}
}

// WithTerminateTimeout sets how long the server gets to exit after its
// stdin is closed before it is killed. Default: 5s.
func WithTerminateTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.TerminateTimeout = timeout
	}
}

// ===== Advanced =====

// WithArgumentValidation checks operation arguments against the input
// schema the server advertises before sending them. Invalid arguments fail
// with a KindValidation error without a round trip.
func WithArgumentValidation(enable bool) Option {
	return func(o *Options) {
		o.ValidateArguments = enable
	}
}

// WithLauncher injects a custom launcher in place of the subprocess
// supervisor, e.g. an in-memory server in tests.
func WithLauncher(launcher Launcher) Option {
	return func(o *Options) {
		o.Launcher = launcher
	}
}

// WithSettings applies file or environment settings. Options given after
// it override the settings.
func WithSettings(s *Settings) Option {
	return func(o *Options) {
		if s != nil {
			s.Apply(o)
		}
	}
}

// LoadOptions reads settings from the TOML file at path (skipped when path
// is empty or the file does not exist), overlays NOTEBOOKLM_* environment
// variables, and returns them as a single Option.
//
//	opt, err := notebooklm.LoadOptions("~/.config/notebooklm/sdk.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := notebooklm.New(opt, notebooklm.WithLogger(logger))
func LoadOptions(path string) (Option, error) {
	settings := &config.Settings{}

	if path != "" {
		fromFile, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}

		settings = fromFile
	}

	fromEnv, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	return WithSettings(settings.Merge(fromEnv)), nil
}
