package notebooklm

import "github.com/wagiedev/notebooklm-sdk-go/internal/config"

// Launcher starts the MCP server a client talks to.
// Implement this to run the server somewhere other than a local subprocess,
// or to serve canned responses in tests.
//
// The default implementation discovers notebooklm-mcp and spawns it.
// Custom launchers are injected via WithLauncher.
type Launcher = config.Launcher

// Process is a running server returned by a Launcher.
type Process = config.Process

// LaunchSpec describes how the server is started: executable, arguments
// and environment.
type LaunchSpec = config.LaunchSpec
