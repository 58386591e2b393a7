package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/pelletier/go-toml/v2"
)

// Settings is the serializable subset of Options that can come from the
// environment or a configuration file. Zero values mean "not set".
type Settings struct {
	// ExecutablePath. ENV: NOTEBOOKLM_MCP_PATH
	ExecutablePath string `env:"NOTEBOOKLM_MCP_PATH"`
	// Profile. ENV: NOTEBOOKLM_PROFILE
	Profile string `env:"NOTEBOOKLM_PROFILE"`
	// ConfigDir. ENV: NOTEBOOKLM_CONFIG_DIR
	ConfigDir string `env:"NOTEBOOKLM_CONFIG_DIR"`
	// InitializeTimeout, e.g. "90s". ENV: NOTEBOOKLM_INITIALIZE_TIMEOUT
	InitializeTimeout time.Duration `env:"NOTEBOOKLM_INITIALIZE_TIMEOUT,strict"`
	// TerminateTimeout, e.g. "2s". ENV: NOTEBOOKLM_TERMINATE_TIMEOUT
	TerminateTimeout time.Duration `env:"NOTEBOOKLM_TERMINATE_TIMEOUT,strict"`
	// ValidateArguments. ENV: NOTEBOOKLM_VALIDATE_ARGUMENTS
	ValidateArguments bool `env:"NOTEBOOKLM_VALIDATE_ARGUMENTS,strict"`
	// Env holds extra subprocess variables. File only.
	Env map[string]string
}

// fileSettings is the on-disk TOML layout. Durations are whole seconds.
type fileSettings struct {
	ExecutablePath           string            `toml:"executable_path"`
	Profile                  string            `toml:"profile"`
	ConfigDir                string            `toml:"config_dir"`
	InitializeTimeoutSeconds int               `toml:"initialize_timeout_seconds"`
	TerminateTimeoutSeconds  int               `toml:"terminate_timeout_seconds"`
	ValidateArguments        bool              `toml:"validate_arguments"`
	Env                      map[string]string `toml:"env"`
}

// FromEnv reads NOTEBOOKLM_* variables from the process environment.
// Unset variables leave the corresponding field zero; a set but unparsable
// duration or boolean is an error.
func FromEnv() (*Settings, error) {
	var s Settings
	if err := envdecode.Decode(&s); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	return &s, nil
}

// LoadFile parses a TOML configuration file. A leading "~/" is expanded.
// A missing file yields empty settings and no error.
func LoadFile(path string) (*Settings, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Settings{}, nil
		}

		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var raw fileSettings

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", expanded, err)
	}

	if raw.InitializeTimeoutSeconds < 0 || raw.TerminateTimeoutSeconds < 0 {
		return nil, fmt.Errorf("parse config %s: timeouts must not be negative", expanded)
	}

	return &Settings{
		ExecutablePath:    raw.ExecutablePath,
		Profile:           raw.Profile,
		ConfigDir:         raw.ConfigDir,
		InitializeTimeout: time.Duration(raw.InitializeTimeoutSeconds) * time.Second,
		TerminateTimeout:  time.Duration(raw.TerminateTimeoutSeconds) * time.Second,
		ValidateArguments: raw.ValidateArguments,
		Env:               raw.Env,
	}, nil
}

// Merge returns a copy of s overlaid with the set fields of other.
func (s *Settings) Merge(other *Settings) *Settings {
	out := *s

	if other == nil {
		return &out
	}

	if other.ExecutablePath != "" {
		out.ExecutablePath = other.ExecutablePath
	}

	if other.Profile != "" {
		out.Profile = other.Profile
	}

	if other.ConfigDir != "" {
		out.ConfigDir = other.ConfigDir
	}

	if other.InitializeTimeout > 0 {
		out.InitializeTimeout = other.InitializeTimeout
	}

	if other.TerminateTimeout > 0 {
		out.TerminateTimeout = other.TerminateTimeout
	}

	out.ValidateArguments = out.ValidateArguments || other.ValidateArguments

	if len(other.Env) > 0 {
		env := make(map[string]string, len(s.Env)+len(other.Env))
		maps.Copy(env, s.Env)
		maps.Copy(env, other.Env)
		out.Env = env
	}

	return &out
}

// Apply copies the set fields of s onto o. Env entries are merged with
// entries already present on o taking precedence.
func (s *Settings) Apply(o *Options) {
	if s.ExecutablePath != "" {
		o.ExecutablePath = s.ExecutablePath
	}

	if s.Profile != "" {
		o.Profile = s.Profile
	}

	if s.ConfigDir != "" {
		o.ConfigDir = s.ConfigDir
	}

	if s.InitializeTimeout > 0 {
		o.InitializeTimeout = s.InitializeTimeout
	}

	if s.TerminateTimeout > 0 {
		o.TerminateTimeout = s.TerminateTimeout
	}

	if s.ValidateArguments {
		o.ValidateArguments = true
	}

	if len(s.Env) > 0 {
		if o.Env == nil {
			o.Env = make(map[string]string, len(s.Env))
		}

		for k, v := range s.Env {
			if _, exists := o.Env[k]; !exists {
				o.Env[k] = v
			}
		}
	}
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", path, err)
		}

		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}

	return path, nil
}
