package invoker

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"slices"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/notebooklm-sdk-go/internal/errors"
	"github.com/wagiedev/notebooklm-sdk-go/internal/session"
)

const (
	// OpConnect names errors from an explicit Connect.
	OpConnect = "connect"
	// OpListOperations names errors from Operations.
	OpListOperations = "list_operations"
)

// Invoker runs one remote operation per call over the manager's session
// and turns every failure into a classified *errors.Error.
type Invoker struct {
	log      *slog.Logger
	sessions *session.Manager
	validate bool
}

// New creates an invoker. When validate is set, arguments are checked
// against the remote tool's input schema before they are sent.
func New(log *slog.Logger, sessions *session.Manager, validate bool) *Invoker {
	return &Invoker{
		log:      log.With("component", "invoker"),
		sessions: sessions,
		validate: validate,
	}
}

// Invoke calls operation name with args and returns its result mapping.
// Nil-valued arguments are dropped. No retries are attempted.
func (i *Invoker) Invoke(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	sess, err := i.sessions.EnsureConnected(ctx)
	if err != nil {
		return nil, connectError(name, err)
	}

	args = compactArgs(args)

	if i.validate {
		if err := i.validateArgs(ctx, sess, name, args); err != nil {
			return nil, err
		}
	}

	i.log.Debug("Invoking operation", "operation", name, "session_id", sess.ID())

	res, err := sess.CallTool(ctx, name, args)
	if err != nil {
		return nil, i.callError(ctx, sess, name, err)
	}

	data := parseResult(res)

	if res.IsError {
		return nil, i.remoteError(name, toolErrorText(res), data)
	}

	if failure, ok := extractError(data); ok {
		return nil, i.classified(name, failure)
	}

	if len(data) == 0 {
		return nil, i.logged(&errors.Error{
			Kind:      errors.KindOperation,
			Operation: name,
			Message:   errors.ErrNoConfirmation.Error(),
		})
	}

	return data, nil
}

// Connect establishes the session without invoking an operation.
func (i *Invoker) Connect(ctx context.Context) error {
	if _, err := i.sessions.EnsureConnected(ctx); err != nil {
		return connectError(OpConnect, err)
	}

	return nil
}

// Operations lists the names of the operations the server offers, sorted.
func (i *Invoker) Operations(ctx context.Context) ([]string, error) {
	sess, err := i.sessions.EnsureConnected(ctx)
	if err != nil {
		return nil, connectError(OpListOperations, err)
	}

	tools, err := sess.Tools(ctx)
	if err != nil {
		return nil, i.callError(ctx, sess, OpListOperations, err)
	}

	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}

	slices.Sort(names)

	return names, nil
}

// callError classifies a failed request. Stream failures mark the session
// failing so the next call reconnects; caller cancellation does not.
func (i *Invoker) callError(ctx context.Context, sess *session.Session, name string, err error) error {
	switch {
	case stderrors.Is(err, context.Canceled) && ctx.Err() != nil:
		return i.logged(&errors.Error{
			Kind:      errors.KindTransport,
			Operation: name,
			Message:   "call abandoned: " + err.Error(),
			Err:       err,
		})
	case sess.Broken() || isTransportFailure(err):
		cause := err
		if !stderrors.Is(err, context.DeadlineExceeded) {
			cause = sess.WithExitError(err)
		}

		i.sessions.MarkFailing(sess, cause)

		return i.logged(&errors.Error{
			Kind:      errors.KindTransport,
			Operation: name,
			Message:   "session lost: " + err.Error(),
			Err:       cause,
		})
	default:
		return i.classified(name, failure{message: err.Error(), cause: err})
	}
}

func (i *Invoker) remoteError(name, text string, data map[string]any) error {
	if failure, ok := extractError(data); ok {
		return i.classified(name, failure)
	}

	return i.classified(name, failure{message: text})
}

func (i *Invoker) classified(name string, f failure) error {
	return i.logged(classify(name, f))
}

func (i *Invoker) logged(err *errors.Error) error {
	i.log.Debug("Operation failed",
		"operation", err.Operation,
		"kind", err.Kind.String(),
		"error", err.Message,
	)

	return err
}

func connectError(name string, err error) error {
	kind := errors.KindConnection

	if _, ok := stderrors.AsType[*errors.ExecutableNotFoundError](err); ok {
		kind = errors.KindStartup
	} else if _, ok := stderrors.AsType[*errors.ProcessStartError](err); ok {
		kind = errors.KindStartup
	}

	return &errors.Error{
		Kind:      kind,
		Operation: name,
		Message:   err.Error(),
		Err:       err,
	}
}

func isTransportFailure(err error) bool {
	for _, target := range []error{
		mcp.ErrConnectionClosed,
		context.DeadlineExceeded,
		io.EOF,
		io.ErrUnexpectedEOF,
		io.ErrClosedPipe,
		os.ErrClosed,
		syscall.EPIPE,
		syscall.ECONNRESET,
	} {
		if stderrors.Is(err, target) {
			return true
		}
	}

	return false
}

// compactArgs returns a copy of args without nil values.
func compactArgs(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))

	for k, v := range args {
		if v != nil {
			out[k] = v
		}
	}

	return out
}
