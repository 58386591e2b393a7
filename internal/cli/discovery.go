package cli

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/wagiedev/notebooklm-sdk-go/internal/errors"
)

// ExecutableName is the command searched for when no explicit path is set.
const ExecutableName = "notebooklm-mcp"

// Config holds configuration for executable discovery.
type Config struct {
	// Executable is an explicit path, or a bare command name to search for.
	// If empty, ExecutableName is searched.
	Executable string

	// Logger is an optional logger for discovery operations.
	// If nil, a default no-op logger is used.
	Logger *slog.Logger
}

// Discoverer locates the notebooklm-mcp binary.
type Discoverer interface {
	// Discover returns the path to the binary or an
	// *errors.ExecutableNotFoundError listing every location tried.
	Discover(ctx context.Context) (string, error)
}

type discoverer struct {
	cfg *Config
	log *slog.Logger
}

var _ Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a new discoverer with the given configuration.
func NewDiscoverer(cfg *Config) Discoverer {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &discoverer{
		cfg: cfg,
		log: log,
	}
}

// Discover locates the binary. A name containing a path separator is used
// as-is; a bare name is searched in PATH, then in common install locations.
func (d *discoverer) Discover(_ context.Context) (string, error) {
	name := d.cfg.Executable
	if name == "" {
		name = ExecutableName
	}

	if strings.ContainsRune(name, os.PathSeparator) {
		d.log.Debug("Using explicit executable path", "path", name)

		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name, nil
		}

		return "", &errors.ExecutableNotFoundError{SearchedPaths: []string{name}}
	}

	searchedPaths := make([]string, 0, 6)

	if path, err := exec.LookPath(name); err == nil {
		d.log.Debug("Found executable in PATH", "path", path)

		return path, nil
	}

	searchedPaths = append(searchedPaths, "$PATH")

	for _, path := range commonPaths(name) {
		searchedPaths = append(searchedPaths, path)

		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			d.log.Debug("Found executable at common path", "path", path)

			return path, nil
		}
	}

	d.log.Warn("notebooklm-mcp not found in any searched paths", "searched_paths", searchedPaths)

	return "", &errors.ExecutableNotFoundError{SearchedPaths: searchedPaths}
}

// commonPaths lists where pipx, uv and system package managers put
// console scripts.
func commonPaths(name string) []string {
	paths := []string{
		filepath.Join("/usr/local/bin", name),
		filepath.Join("/usr/bin", name),
		filepath.Join("/opt/homebrew/bin", name),
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".local", "bin", name))
	}

	return paths
}
