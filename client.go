package notebooklm

import "context"

// AsyncClient drives one notebooklm-mcp server over MCP with context-aware,
// goroutine-safe methods.
//
// The server is started lazily by the first call and restarted on demand
// after a transport failure; there is no background reconnect. Each client
// owns its own subprocess, so tenants are isolated by giving each its own
// client (and, with WithConfigDir, its own credential directory).
//
// Example usage:
//
//	client := notebooklm.NewAsyncClient(
//	    notebooklm.WithLogger(slog.Default()),
//	    notebooklm.WithProfile("work"),
//	)
//	defer client.Disconnect(ctx)
//
//	result, err := client.Invoke(ctx, "notebook_list", nil)
//	if err != nil {
//	    if errors.Is(err, notebooklm.ErrAuthentication) {
//	        // run notebooklm-mcp-auth, then client.RefreshAuth(ctx)
//	    }
//	    log.Fatal(err)
//	}
//
//	// Or start several operations and collect them as they finish
//	done := make(chan *notebooklm.Call, 2)
//	client.Go(ctx, "notebook_get", notebooklm.Result{"notebook_id": a}, done)
//	client.Go(ctx, "notebook_get", notebooklm.Result{"notebook_id": b}, done)
type AsyncClient interface {
	// Connect starts the server and completes the MCP handshake if no
	// healthy session exists. Calling it is optional: every other call
	// connects on demand.
	// Returns a KindStartup error if the server cannot be started and a
	// KindConnection error if the handshake fails.
	Connect(ctx context.Context) error

	// Invoke runs the named remote operation with args and returns its
	// result mapping. Nil-valued arguments are omitted. Failures are
	// *Error values classified by Kind; transport failures make the next
	// call start a fresh server. No retries are attempted.
	Invoke(ctx context.Context, name string, args map[string]any) (Result, error)

	// Go runs Invoke asynchronously. The returned Call is sent on done when
	// it completes. If done is nil a buffered channel is allocated;
	// an unbuffered done panics.
	Go(ctx context.Context, name string, args map[string]any, done chan *Call) *Call

	// Operations lists the operation names the server offers, sorted.
	Operations(ctx context.Context) ([]string, error)

	// RefreshAuth asks the server to reload credentials from disk or
	// re-authenticate headlessly.
	RefreshAuth(ctx context.Context) (Result, error)

	// SaveAuthTokens hands browser credentials to the server. Cookies is
	// required; the other fields are sent only when set.
	SaveAuthTokens(ctx context.Context, tokens *AuthTokens) (Result, error)

	// Disconnect terminates the server process, if any. The client remains
	// usable and reconnects on the next call. Safe to call multiple times.
	Disconnect(ctx context.Context) error

	// State reports the connection state.
	State() State

	// ServerInfo returns handshake details of the live session, or nil
	// before the first connect and after Disconnect.
	ServerInfo() *ServerInfo

	// Profile returns the configured credential profile, or "".
	Profile() string
}

// NewAsyncClient creates a disconnected AsyncClient.
//
//	client := notebooklm.NewAsyncClient(
//	    notebooklm.WithExecutablePath("/opt/notebooklm/bin/notebooklm-mcp"),
//	    notebooklm.WithConfigDir("/var/lib/tenants/acme"),
//	)
func NewAsyncClient(opts ...Option) AsyncClient {
	return newAsyncClientImpl(applyOptions(opts))
}

// Client is the blocking counterpart of AsyncClient for callers without a
// context of their own.
//
// Each Client runs a dedicated goroutine for its whole lifetime; blocking
// methods hand their work to it and wait for the outcome. Results and errors
// are exactly those AsyncClient would return.
//
// Lifecycle: Clients are single-use. After Close(), every method returns
// ErrClientClosed; create a new client with New().
//
// Example usage:
//
//	client := notebooklm.New(notebooklm.WithProfile("work"))
//	defer client.Close()
//
//	result, err := client.Invoke("notebook_create", notebooklm.Result{"title": "Research"})
//	if err != nil {
//	    log.Fatal(err)
//	}
type Client interface {
	// Connect starts the server and completes the MCP handshake.
	// Calling it is optional: every other call connects on demand.
	Connect() error

	// Invoke runs the named remote operation and blocks until it completes.
	Invoke(name string, args map[string]any) (Result, error)

	// Operations lists the operation names the server offers, sorted.
	Operations() ([]string, error)

	// RefreshAuth asks the server to reload credentials.
	RefreshAuth() (Result, error)

	// SaveAuthTokens hands browser credentials to the server.
	SaveAuthTokens(tokens *AuthTokens) (Result, error)

	// State reports the connection state.
	State() State

	// ServerInfo returns handshake details of the live session, or nil.
	ServerInfo() *ServerInfo

	// Profile returns the configured credential profile, or "".
	Profile() string

	// Close terminates the server and stops the client's goroutine.
	// After Close(), the client cannot be reused. Safe to call multiple times.
	Close() error
}

// New creates a blocking Client and starts its goroutine. The server is
// started by the first call that needs it.
func New(opts ...Option) Client {
	return newClientImpl(applyOptions(opts))
}
