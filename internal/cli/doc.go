// Package cli provides executable discovery and launch description building
// for the notebooklm-mcp server binary.
//
// # Discovery
//
// The Discoverer interface locates the binary:
//
//	discoverer := cli.NewDiscoverer(&cli.Config{
//	    Executable: "",           // Optional explicit path
//	    Logger:     slog.Default(),
//	})
//	path, err := discoverer.Discover(ctx)
//
// Discovery searches in the following order:
//  1. Explicit path in Config.Executable (if it contains a path separator)
//  2. System PATH
//  3. Common installation directories (/usr/local/bin, /usr/bin,
//     /opt/homebrew/bin, ~/.local/bin)
//
// # Launch Description
//
// BuildLaunchSpec resolves executable, arguments and environment once per
// client:
//
//	spec := cli.BuildLaunchSpec(options)
//
// A profile becomes "--profile <name>". A config directory overrides HOME so
// the server reads and writes credentials under it.
package cli
