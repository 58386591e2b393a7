// Package subprocess launches and supervises the notebooklm-mcp server.
//
// Supervisor implements config.Launcher. Each Launch starts one child whose
// stdin and stdout form the MCP byte stream and whose stderr is captured
// line by line. Process.Terminate closes stdin, waits a grace period and
// then kills the child.
package subprocess
