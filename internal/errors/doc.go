// Package errors defines error types for the NotebookLM SDK.
//
// Raw errors (ExecutableNotFoundError, ProcessStartError, ConnectionError,
// ProcessError) describe what went wrong below the session layer. The
// operation invoker translates them, together with failures reported by the
// remote tools, into a single classified *Error carrying a Kind. All error
// types support unwrapping and can be checked using errors.Is, errors.As and
// errors.AsType.
package errors
