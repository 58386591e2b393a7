package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NotebookLMError is the base interface for all SDK errors.
type NotebookLMError interface {
	error
	IsNotebookLMError() bool
}

// Compile-time verification that all error types implement NotebookLMError.
var (
	_ NotebookLMError = (*Error)(nil)
	_ NotebookLMError = (*ExecutableNotFoundError)(nil)
	_ NotebookLMError = (*ProcessStartError)(nil)
	_ NotebookLMError = (*ConnectionError)(nil)
	_ NotebookLMError = (*ProcessError)(nil)
)

// Kind classifies a failed operation.
type Kind int

const (
	// KindOperation is a generic remote failure, including the
	// "no confirmation" case.
	KindOperation Kind = iota
	// KindStartup means the subprocess could not be launched.
	KindStartup
	// KindConnection means the handshake or session establishment failed.
	KindConnection
	// KindTransport means a live session was lost mid-call.
	KindTransport
	// KindAuthentication means the remote reported missing or expired credentials.
	KindAuthentication
	// KindNotFound means the remote could not find the addressed resource.
	KindNotFound
	// KindValidation means the caller-supplied arguments were rejected.
	KindValidation
	// KindRateLimit means the remote is throttling requests.
	KindRateLimit
)

var kindNames = [...]string{
	KindOperation:      "operation",
	KindStartup:        "startup",
	KindConnection:     "connection",
	KindTransport:      "transport",
	KindAuthentication: "authentication",
	KindNotFound:       "not_found",
	KindValidation:     "validation",
	KindRateLimit:      "rate_limit",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}

	return kindNames[k]
}

// kindError is the sentinel type matched by (*Error).Is.
type kindError struct {
	kind Kind
}

func (e *kindError) Error() string {
	return e.kind.String() + " error"
}

// Kind sentinels. Use errors.Is(err, ErrNotFound) to test the kind of a
// classified *Error without type assertions.
var (
	ErrStartup        error = &kindError{kind: KindStartup}
	ErrConnection     error = &kindError{kind: KindConnection}
	ErrTransport      error = &kindError{kind: KindTransport}
	ErrAuthentication error = &kindError{kind: KindAuthentication}
	ErrNotFound       error = &kindError{kind: KindNotFound}
	ErrValidation     error = &kindError{kind: KindValidation}
	ErrRateLimit      error = &kindError{kind: KindRateLimit}
	ErrOperation      error = &kindError{kind: KindOperation}
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrNoConfirmation matches operation errors where the remote reported
	// success without a usable payload, or explicitly said it got no
	// confirmation from its upstream API.
	ErrNoConfirmation = errors.New("no confirmation from remote service")

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.New("client closed: clients are single-use, create a new one with New()")
)

// noConfirmationMarker is matched case-insensitively against remote messages.
const noConfirmationMarker = "no confirmation"

// Error is a classified failure of a single operation.
//
// Errors are constructed by the operation invoker only; every layer above
// it returns the same *Error value unchanged.
type Error struct {
	// Kind is the classification of the failure.
	Kind Kind
	// Operation is the remote operation (tool) name.
	Operation string
	// Message is the human-readable detail, without the operation prefix.
	Message string
	// Code is the remote error code, when the remote supplied one.
	Code string
	// RetryAfter is the server-advised backoff for KindRateLimit. Zero if absent.
	RetryAfter time.Duration
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "Unknown error"
	}

	return fmt.Sprintf("[%s] %s", e.Operation, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind, or
// ErrNoConfirmation for the no-confirmation case.
func (e *Error) Is(target error) bool {
	if target == ErrNoConfirmation {
		return e.Kind == KindOperation &&
			strings.Contains(strings.ToLower(e.Message), noConfirmationMarker)
	}

	if k, ok := target.(*kindError); ok {
		return k.kind == e.Kind
	}

	return false
}

// IsNotebookLMError implements NotebookLMError.
func (e *Error) IsNotebookLMError() bool { return true }

// Temporary reports whether retrying the same operation may succeed.
// Transport failures reconnect on the next call; rate limits clear over time.
func (e *Error) Temporary() bool {
	return e.Kind == KindTransport || e.Kind == KindRateLimit
}

// ExecutableNotFoundError indicates the notebooklm-mcp binary was not found.
type ExecutableNotFoundError struct {
	SearchedPaths []string
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("notebooklm-mcp executable not found in: %v", e.SearchedPaths)
}

// IsNotebookLMError implements NotebookLMError.
func (e *ExecutableNotFoundError) IsNotebookLMError() bool { return true }

// ProcessStartError indicates the executable was found but could not be started.
type ProcessStartError struct {
	Path string
	Err  error
}

func (e *ProcessStartError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Path, e.Err)
}

func (e *ProcessStartError) Unwrap() error {
	return e.Err
}

// IsNotebookLMError implements NotebookLMError.
func (e *ProcessStartError) IsNotebookLMError() bool { return true }

// ConnectionError indicates failure to establish the MCP session.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to notebooklm-mcp: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsNotebookLMError implements NotebookLMError.
func (e *ConnectionError) IsNotebookLMError() bool { return true }

// ProcessError indicates the subprocess exited unexpectedly.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notebooklm-mcp process failed (exit %d): %v", e.ExitCode, e.Err)
	}

	return fmt.Sprintf("notebooklm-mcp process failed (exit %d): %s", e.ExitCode, e.Stderr)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsNotebookLMError implements NotebookLMError.
func (e *ProcessError) IsNotebookLMError() bool { return true }
