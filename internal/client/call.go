package client

import "log/slog"

// Call represents an active or completed Go invocation.
type Call struct {
	Operation string         // Remote operation name.
	Args      map[string]any // Arguments as passed to Go.
	Result    map[string]any // Result mapping, set on success.
	Error     error          // After completion, the error status.
	Done      chan *Call     // Receives Call when Go is complete.
}

func (call *Call) done(log *slog.Logger) {
	select {
	case call.Done <- call:
	default:
		// The call must not block on a full channel, so the notification
		// is dropped.
		log.Warn("Discarding Call reply due to insufficient Done channel capacity",
			"operation", call.Operation,
			"capacity", cap(call.Done),
		)
	}
}
