package client

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/notebooklm-sdk-go/internal/cli"
	"github.com/wagiedev/notebooklm-sdk-go/internal/config"
	"github.com/wagiedev/notebooklm-sdk-go/internal/invoker"
	"github.com/wagiedev/notebooklm-sdk-go/internal/session"
	"github.com/wagiedev/notebooklm-sdk-go/internal/subprocess"
)

const (
	// Name identifies this library in the MCP handshake.
	Name = "notebooklm-sdk-go"

	// Version is the library version reported in the MCP handshake.
	Version = "0.1.0"
)

// Remote operations forwarded by the credential helpers.
const (
	opRefreshAuth    = "refresh_auth"
	opSaveAuthTokens = "save_auth_tokens"
)

// AuthTokens are browser credentials forwarded unchanged to the server's
// save_auth_tokens operation. Only Cookies is required.
type AuthTokens struct {
	Cookies     string
	CSRFToken   string
	SessionID   string
	RequestBody string
	RequestURL  string
}

func (t *AuthTokens) args() map[string]any {
	args := map[string]any{"cookies": t.Cookies}

	optional := map[string]string{
		"csrf_token":   t.CSRFToken,
		"session_id":   t.SessionID,
		"request_body": t.RequestBody,
		"request_url":  t.RequestURL,
	}

	for key, value := range optional {
		if value != "" {
			args[key] = value
		}
	}

	return args
}

// Client is the asynchronous NotebookLM client. It owns one session manager,
// and through it at most one notebooklm-mcp process. All methods are safe
// for concurrent use.
type Client struct {
	log      *slog.Logger
	options  *config.Options
	sessions *session.Manager
	invoker  *invoker.Invoker
}

// New creates a disconnected client. The subprocess is started lazily by the
// first call that needs it, or explicitly by Connect.
func New(options *config.Options) *Client {
	options = options.Clone()

	log := options.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	launcher := options.Launcher
	if launcher == nil {
		launcher = subprocess.NewSupervisor(log, options)
	}

	sessions := session.NewManager(session.Config{
		Logger:            log,
		Launcher:          launcher,
		Spec:              cli.BuildLaunchSpec(options),
		ClientInfo:        &mcp.Implementation{Name: Name, Version: Version},
		InitializeTimeout: options.EffectiveInitializeTimeout(),
	})

	return &Client{
		log:      log.With("component", "client"),
		options:  options,
		sessions: sessions,
		invoker:  invoker.New(log, sessions, options.ValidateArguments),
	}
}

// Connect starts the subprocess and completes the handshake if no healthy
// session exists.
func (c *Client) Connect(ctx context.Context) error {
	return c.invoker.Connect(ctx)
}

// Invoke runs one remote operation and returns its result mapping.
func (c *Client) Invoke(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	return c.invoker.Invoke(ctx, name, args)
}

// Go starts Invoke on its own goroutine and returns immediately. The
// returned Call is sent on done when it completes. If done is nil a new
// buffered channel is allocated; an unbuffered done panics.
func (c *Client) Go(ctx context.Context, name string, args map[string]any, done chan *Call) *Call {
	if done == nil {
		done = make(chan *Call, 1)
	} else if cap(done) == 0 {
		panic("notebooklm: done channel is unbuffered")
	}

	call := &Call{Operation: name, Args: args, Done: done}

	go func() {
		call.Result, call.Error = c.Invoke(ctx, name, args)
		call.done(c.log)
	}()

	return call
}

// Operations lists the operation names the server offers.
func (c *Client) Operations(ctx context.Context) ([]string, error) {
	return c.invoker.Operations(ctx)
}

// RefreshAuth asks the server to reload its credentials from disk or
// re-authenticate headlessly.
func (c *Client) RefreshAuth(ctx context.Context) (map[string]any, error) {
	return c.Invoke(ctx, opRefreshAuth, map[string]any{})
}

// SaveAuthTokens hands browser credentials to the server.
func (c *Client) SaveAuthTokens(ctx context.Context, tokens *AuthTokens) (map[string]any, error) {
	if tokens == nil {
		tokens = &AuthTokens{}
	}

	return c.Invoke(ctx, opSaveAuthTokens, tokens.args())
}

// Disconnect terminates the session, if any. The client stays usable: the
// next call connects again.
func (c *Client) Disconnect(ctx context.Context) error {
	c.log.Debug("Disconnecting")

	return c.sessions.Disconnect(ctx)
}

// State reports the connection state.
func (c *Client) State() session.State {
	return c.sessions.State()
}

// Profile returns the configured credential profile, or "".
func (c *Client) Profile() string {
	return c.options.Profile
}

// ServerInfo describes the server behind the live session.
type ServerInfo struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocolVersion"`
	SessionID       string `json:"sessionId"`
	Requests        uint64 `json:"requests"`
}

// ServerInfo returns handshake details of the live session, or nil when
// there is none.
func (c *Client) ServerInfo() *ServerInfo {
	sess := c.sessions.Current()
	if sess == nil {
		return nil
	}

	info := &ServerInfo{
		SessionID: sess.ID(),
		Requests:  sess.Requests(),
	}

	if res := sess.InitializeResult(); res != nil {
		info.ProtocolVersion = res.ProtocolVersion

		if res.ServerInfo != nil {
			info.Name = res.ServerInfo.Name
			info.Version = res.ServerInfo.Version
		}
	}

	return info
}
