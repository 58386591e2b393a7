// Package invoker turns a named remote operation into one MCP tools/call
// exchange and classifies every failure.
//
// Failures are classified in priority order: stream failures
// (KindTransport, after which the session is replaced on next use), then
// markers found in the remote error message or code for authentication,
// not found, rate limiting and validation, then a generic KindOperation.
// A successful call without a usable payload is a KindOperation error that
// matches errors.ErrNoConfirmation.
package invoker
