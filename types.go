package notebooklm

import (
	"github.com/wagiedev/notebooklm-sdk-go/internal/client"
	"github.com/wagiedev/notebooklm-sdk-go/internal/config"
	"github.com/wagiedev/notebooklm-sdk-go/internal/session"
)

// Version is the library version reported to the server in the handshake.
const Version = client.Version

// Options configures a client. Prefer the With* functional options.
type Options = config.Options

// Settings is the part of Options that can be loaded from a TOML file or
// NOTEBOOKLM_* environment variables. See LoadOptions.
type Settings = config.Settings

// Result is the field-name-to-value mapping returned by a remote operation.
type Result = map[string]any

// Call represents an active or completed AsyncClient.Go invocation.
type Call = client.Call

// AuthTokens are browser credentials for SaveAuthTokens.
type AuthTokens = client.AuthTokens

// ServerInfo describes the server behind a client's live session.
type ServerInfo = client.ServerInfo

// State is the connection state of a client.
type State = session.State

// Connection states.
const (
	// StateDisconnected: no session. The next call connects.
	StateDisconnected = session.StateDisconnected
	// StateConnecting: a connect attempt is in flight.
	StateConnecting = session.StateConnecting
	// StateReady: a healthy session is available.
	StateReady = session.StateReady
	// StateFailing: the session broke. The next call replaces it.
	StateFailing = session.StateFailing
)
