package notebooklm

import "github.com/wagiedev/notebooklm-sdk-go/internal/errors"

// Re-export error types from internal package

// Error is a classified failure of a remote operation. Its message is
// prefixed with the operation name, e.g. "[notebook_get] Notebook not found".
type Error = errors.Error

// Kind categorizes an Error.
type Kind = errors.Kind

// Error kinds.
const (
	KindOperation      = errors.KindOperation
	KindStartup        = errors.KindStartup
	KindConnection     = errors.KindConnection
	KindTransport      = errors.KindTransport
	KindAuthentication = errors.KindAuthentication
	KindNotFound       = errors.KindNotFound
	KindValidation     = errors.KindValidation
	KindRateLimit      = errors.KindRateLimit
)

// NotebookLMError is the base interface for all SDK errors.
type NotebookLMError = errors.NotebookLMError

// ExecutableNotFoundError indicates the notebooklm-mcp binary was not found.
type ExecutableNotFoundError = errors.ExecutableNotFoundError

// ProcessStartError indicates the notebooklm-mcp binary could not be started.
type ProcessStartError = errors.ProcessStartError

// ConnectionError indicates the MCP handshake failed.
type ConnectionError = errors.ConnectionError

// ProcessError indicates the notebooklm-mcp process exited unexpectedly.
type ProcessError = errors.ProcessError

// Re-export sentinel errors from internal package.
// Kind sentinels match any *Error of that kind via errors.Is.
var (
	ErrStartup        = errors.ErrStartup
	ErrConnection     = errors.ErrConnection
	ErrTransport      = errors.ErrTransport
	ErrAuthentication = errors.ErrAuthentication
	ErrNotFound       = errors.ErrNotFound
	ErrValidation     = errors.ErrValidation
	ErrRateLimit      = errors.ErrRateLimit
	ErrOperation      = errors.ErrOperation

	// ErrNoConfirmation matches operation errors where the server reported
	// success without a usable payload.
	ErrNoConfirmation = errors.ErrNoConfirmation

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.ErrClientClosed
)
