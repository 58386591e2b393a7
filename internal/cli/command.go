package cli

import (
	"os"
	"slices"
	"strings"

	"github.com/wagiedev/notebooklm-sdk-go/internal/config"
)

// BuildArgs constructs the notebooklm-mcp command line arguments.
func BuildArgs(options *config.Options) []string {
	args := []string{}

	if options.Profile != "" {
		args = append(args, "--profile", options.Profile)
	}

	return args
}

// BuildEnvironment constructs the environment for the subprocess: the
// ambient environment, then options.Env, then HOME=ConfigDir when set.
// Later sources replace earlier values of the same key.
func BuildEnvironment(options *config.Options) []string {
	env := os.Environ()

	keys := make([]string, 0, len(options.Env))
	for key := range options.Env {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		env = setEnv(env, key, options.Env[key])
	}

	if options.ConfigDir != "" {
		env = setEnv(env, "HOME", options.ConfigDir)
	}

	return env
}

// BuildLaunchSpec resolves the immutable launch description for a client.
func BuildLaunchSpec(options *config.Options) *config.LaunchSpec {
	executable := options.ExecutablePath
	if executable == "" {
		executable = ExecutableName
	}

	return &config.LaunchSpec{
		Executable: executable,
		Args:       BuildArgs(options),
		Env:        BuildEnvironment(options),
	}
}

func setEnv(env []string, key, value string) []string {
	prefix := key + "="

	env = slices.DeleteFunc(env, func(kv string) bool {
		return strings.HasPrefix(kv, prefix)
	})

	return append(env, prefix+value)
}
