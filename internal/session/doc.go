// Package session manages the single MCP session of a NotebookLM client.
//
// A Manager launches the notebooklm-mcp process through a config.Launcher,
// performs the MCP initialize handshake and hands out the resulting Session
// to every caller until it breaks or is disconnected:
//
//	disconnected -> connecting -> ready -> failing -> (replaced on next use)
//	      ^              |
//	      +--- failed ---+
//
// Only one connect attempt is ever in flight. A broken session is never
// repaired in the background; the next EnsureConnected tears it down and
// starts a fresh process.
package session
