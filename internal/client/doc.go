// Package client implements the asynchronous NotebookLM client.
//
// The client wires together executable discovery, the subprocess supervisor,
// the session manager and the operation invoker. It keeps no conversation
// state of its own: every call is an independent remote operation, and the
// session underneath is (re)established on demand.
package client
