// Package servertest provides an in-memory stand-in for the notebooklm-mcp
// server, for use in tests.
//
// Launcher implements config.Launcher. Each Launch starts a fresh go-sdk
// MCP server connected over in-memory transports and serving the registered
// tools, so tests exercise the real MCP handshake and tools/call exchange:
//
//	launcher := servertest.NewLauncher()
//	launcher.Handle("list_items", func(ctx context.Context, args map[string]any) *mcp.CallToolResult {
//	    return servertest.JSONResult(map[string]any{"items": []any{}})
//	})
//
// Processes can simulate failures with BreakPipe and Crash, and launches can
// be delayed with Hold or failed with FailLaunch.
package servertest
